package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS subjects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_by INTEGER NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chapters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_by INTEGER NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chapter_id INTEGER NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			time_limit INTEGER NOT NULL DEFAULT 30,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_by INTEGER NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quiz_id INTEGER NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			prompt TEXT NOT NULL,
			option_a TEXT NOT NULL,
			option_b TEXT NOT NULL,
			option_c TEXT NOT NULL,
			option_d TEXT NOT NULL,
			correct_answer TEXT NOT NULL CHECK (correct_answer IN ('A', 'B', 'C', 'D')),
			points INTEGER NOT NULL DEFAULT 1 CHECK (points > 0)
		);`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			quiz_id INTEGER NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			score INTEGER,
			total_questions INTEGER NOT NULL,
			time_taken INTEGER NOT NULL DEFAULT 0,
			started_at_unix INTEGER NOT NULL,
			completed_at_unix INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS user_answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			attempt_id INTEGER NOT NULL REFERENCES quiz_attempts(id) ON DELETE CASCADE,
			question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			selected_answer TEXT,
			is_correct INTEGER NOT NULL,
			UNIQUE (attempt_id, question_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_subject ON chapters(subject_id);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_chapter ON quizzes(chapter_id);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_quiz ON questions(quiz_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_completed ON quiz_attempts(user_id, completed_at_unix);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_quiz ON quiz_attempts(quiz_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_completed ON quiz_attempts(completed_at_unix);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
