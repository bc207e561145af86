package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"quiz-backend/internal/quiz"
)

func (s *SQLiteStore) CreateSubject(ctx context.Context, subject quiz.Subject) (quiz.Subject, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO subjects (name, description, is_active, created_by, created_at_unix) VALUES (?, ?, ?, ?, ?)`,
		subject.Name,
		subject.Description,
		boolToInt(subject.IsActive),
		subject.CreatedBy,
		subject.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return quiz.Subject{}, quiz.ErrDuplicateSubject
		}
		return quiz.Subject{}, err
	}

	subject.ID, err = result.LastInsertId()
	if err != nil {
		return quiz.Subject{}, err
	}
	subject.CreatedAt = subject.CreatedAt.UTC()
	return subject, nil
}

func scanSubject(row rowScanner) (quiz.Subject, error) {
	var (
		subject   quiz.Subject
		createdNs int64
	)
	if err := row.Scan(&subject.ID, &subject.Name, &subject.Description, &subject.IsActive, &subject.CreatedBy, &createdNs); err != nil {
		return quiz.Subject{}, err
	}
	subject.CreatedAt = fromUnix(createdNs)
	return subject, nil
}

func (s *SQLiteStore) GetSubject(ctx context.Context, subjectID int64) (quiz.Subject, error) {
	subject, err := scanSubject(s.db.QueryRowContext(
		ctx,
		`SELECT id, name, description, is_active, created_by, created_at_unix FROM subjects WHERE id = ?`,
		subjectID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Subject{}, quiz.ErrSubjectNotFound
	}
	return subject, err
}

func (s *SQLiteStore) ListSubjects(ctx context.Context, activeOnly bool) ([]quiz.Subject, error) {
	query := `SELECT id, name, description, is_active, created_by, created_at_unix FROM subjects`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]quiz.Subject, 0)
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

func (s *SQLiteStore) DeleteSubject(ctx context.Context, subjectID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, subjectID)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrSubjectNotFound)
}

func (s *SQLiteStore) CreateChapter(ctx context.Context, chapter quiz.Chapter) (quiz.Chapter, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO chapters (subject_id, name, description, is_active, created_by, created_at_unix) VALUES (?, ?, ?, ?, ?, ?)`,
		chapter.SubjectID,
		chapter.Name,
		chapter.Description,
		boolToInt(chapter.IsActive),
		chapter.CreatedBy,
		chapter.CreatedAt.UnixNano(),
	)
	if err != nil {
		return quiz.Chapter{}, err
	}

	chapter.ID, err = result.LastInsertId()
	if err != nil {
		return quiz.Chapter{}, err
	}
	chapter.CreatedAt = chapter.CreatedAt.UTC()
	return chapter, nil
}

func scanChapter(row rowScanner) (quiz.Chapter, error) {
	var (
		chapter   quiz.Chapter
		createdNs int64
	)
	if err := row.Scan(&chapter.ID, &chapter.SubjectID, &chapter.Name, &chapter.Description, &chapter.IsActive, &chapter.CreatedBy, &createdNs); err != nil {
		return quiz.Chapter{}, err
	}
	chapter.CreatedAt = fromUnix(createdNs)
	return chapter, nil
}

func (s *SQLiteStore) GetChapter(ctx context.Context, chapterID int64) (quiz.Chapter, error) {
	chapter, err := scanChapter(s.db.QueryRowContext(
		ctx,
		`SELECT id, subject_id, name, description, is_active, created_by, created_at_unix FROM chapters WHERE id = ?`,
		chapterID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Chapter{}, quiz.ErrChapterNotFound
	}
	return chapter, err
}

func (s *SQLiteStore) ListChapters(ctx context.Context, subjectID int64, activeOnly bool) ([]quiz.Chapter, error) {
	query := `SELECT id, subject_id, name, description, is_active, created_by, created_at_unix FROM chapters WHERE subject_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chapters := make([]quiz.Chapter, 0)
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

func (s *SQLiteStore) DeleteChapter(ctx context.Context, chapterID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = ?`, chapterID)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrChapterNotFound)
}
