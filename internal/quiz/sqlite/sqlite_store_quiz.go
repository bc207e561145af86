package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"quiz-backend/internal/quiz"
)

const quizColumns = `q.id, q.chapter_id, q.title, q.description, q.time_limit, q.is_active, q.created_by, q.created_at_unix,
	(SELECT COUNT(*) FROM questions qs WHERE qs.quiz_id = q.id)`

func scanQuiz(row rowScanner) (quiz.Quiz, error) {
	var (
		item      quiz.Quiz
		createdNs int64
	)
	if err := row.Scan(
		&item.ID,
		&item.ChapterID,
		&item.Title,
		&item.Description,
		&item.TimeLimit,
		&item.IsActive,
		&item.CreatedBy,
		&createdNs,
		&item.QuestionCount,
	); err != nil {
		return quiz.Quiz{}, err
	}
	item.CreatedAt = fromUnix(createdNs)
	return item, nil
}

func (s *SQLiteStore) CreateQuiz(ctx context.Context, item quiz.Quiz) (quiz.Quiz, error) {
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (chapter_id, title, description, time_limit, is_active, created_by, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ChapterID,
		item.Title,
		item.Description,
		item.TimeLimit,
		boolToInt(item.IsActive),
		item.CreatedBy,
		item.CreatedAt.UnixNano(),
	)
	if err != nil {
		return quiz.Quiz{}, err
	}

	item.ID, err = result.LastInsertId()
	if err != nil {
		return quiz.Quiz{}, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.QuestionCount = 0
	return item, nil
}

func (s *SQLiteStore) UpdateQuiz(ctx context.Context, item quiz.Quiz) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE quizzes SET chapter_id = ?, title = ?, description = ?, time_limit = ?, is_active = ? WHERE id = ?`,
		item.ChapterID,
		item.Title,
		item.Description,
		item.TimeLimit,
		boolToInt(item.IsActive),
		item.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrQuizNotFound)
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, quizID int64) (quiz.Quiz, error) {
	item, err := scanQuiz(s.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes q WHERE q.id = ?`, quizID))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Quiz{}, quiz.ErrQuizNotFound
	}
	return item, err
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context, filter quiz.QuizFilter) ([]quiz.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes q WHERE 1 = 1`
	args := make([]any, 0, 1)
	if filter.ChapterID > 0 {
		query += ` AND q.chapter_id = ?`
		args = append(args, filter.ChapterID)
	}
	if filter.ActiveOnly {
		query += ` AND q.is_active = 1`
	}
	query += ` ORDER BY q.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]quiz.Quiz, 0)
	for rows.Next() {
		item, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, item)
	}
	return quizzes, rows.Err()
}

// DeleteQuiz cascades to questions, attempts and their answers.
func (s *SQLiteStore) DeleteQuiz(ctx context.Context, quizID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, quizID)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrQuizNotFound)
}

// AddQuestions inserts all questions in one transaction and returns them with ids.
func (s *SQLiteStore) AddQuestions(ctx context.Context, quizID int64, questions []quiz.Question) ([]quiz.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes WHERE id = ?`, quizID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, quiz.ErrQuizNotFound
	}

	added := make([]quiz.Question, 0, len(questions))
	for _, question := range questions {
		options := optionTexts(question)
		result, err := tx.ExecContext(
			ctx,
			`INSERT INTO questions (quiz_id, prompt, option_a, option_b, option_c, option_d, correct_answer, points)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			quizID,
			question.Prompt,
			options[0],
			options[1],
			options[2],
			options[3],
			question.CorrectAnswer,
			question.Points,
		)
		if err != nil {
			return nil, err
		}

		question.ID, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
		question.QuizID = quizID
		added = append(added, question)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return added, nil
}

func (s *SQLiteStore) UpdateQuestion(ctx context.Context, question quiz.Question) error {
	options := optionTexts(question)
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE questions
		 SET prompt = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct_answer = ?, points = ?
		 WHERE id = ?`,
		question.Prompt,
		options[0],
		options[1],
		options[2],
		options[3],
		question.CorrectAnswer,
		question.Points,
		question.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrQuestionNotFound)
}

const questionColumns = `id, quiz_id, prompt, option_a, option_b, option_c, option_d, correct_answer, points`

func scanQuestion(row rowScanner) (quiz.Question, error) {
	var (
		question quiz.Question
		a, b     string
		c, d     string
	)
	if err := row.Scan(&question.ID, &question.QuizID, &question.Prompt, &a, &b, &c, &d, &question.CorrectAnswer, &question.Points); err != nil {
		return quiz.Question{}, err
	}
	question.Options = []quiz.Option{
		{Letter: "A", Text: a},
		{Letter: "B", Text: b},
		{Letter: "C", Text: c},
		{Letter: "D", Text: d},
	}
	return question, nil
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, questionID int64) (quiz.Question, error) {
	question, err := scanQuestion(s.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, questionID))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Question{}, quiz.ErrQuestionNotFound
	}
	return question, err
}

// ListQuestions returns a quiz's questions in id order.
func (s *SQLiteStore) ListQuestions(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	return listQuestions(ctx, s.db, quizID)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listQuestions(ctx context.Context, q queryer, quizID int64) ([]quiz.Question, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE quiz_id = ? ORDER BY id ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, questionID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, questionID)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrQuestionNotFound)
}

func optionTexts(question quiz.Question) [4]string {
	var texts [4]string
	for idx, letter := range quiz.Letters {
		texts[idx] = question.OptionText(letter)
	}
	return texts
}
