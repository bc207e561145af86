package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"quiz-backend/internal/quiz"
)

func (s *SQLiteStore) CreateAttempt(ctx context.Context, attempt quiz.Attempt) (quiz.Attempt, error) {
	if attempt.StartedAt.IsZero() {
		attempt.StartedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quiz_attempts (user_id, quiz_id, total_questions, time_taken, started_at_unix) VALUES (?, ?, ?, 0, ?)`,
		attempt.UserID,
		attempt.QuizID,
		attempt.TotalQuestions,
		attempt.StartedAt.UnixNano(),
	)
	if err != nil {
		return quiz.Attempt{}, err
	}

	attempt.ID, err = result.LastInsertId()
	if err != nil {
		return quiz.Attempt{}, err
	}
	attempt.StartedAt = attempt.StartedAt.UTC()
	attempt.Score = nil
	attempt.CompletedAt = nil
	return attempt, nil
}

func (s *SQLiteStore) GetAttempt(ctx context.Context, attemptID int64) (quiz.Attempt, error) {
	var (
		attempt     quiz.Attempt
		score       sql.NullInt64
		startedNs   int64
		completedNs sql.NullInt64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, quiz_id, score, total_questions, time_taken, started_at_unix, completed_at_unix
		 FROM quiz_attempts WHERE id = ?`,
		attemptID,
	).Scan(&attempt.ID, &attempt.UserID, &attempt.QuizID, &score, &attempt.TotalQuestions, &attempt.TimeTaken, &startedNs, &completedNs)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Attempt{}, quiz.ErrAttemptNotFound
	}
	if err != nil {
		return quiz.Attempt{}, err
	}

	if score.Valid {
		value := int(score.Int64)
		attempt.Score = &value
	}
	attempt.StartedAt = fromUnix(startedNs)
	attempt.CompletedAt = fromNullUnix(completedNs)
	return attempt, nil
}

// SubmitAttempt runs as a single transaction: the attempt update and the
// answer rows are committed together or not at all.
//
// Invariants:
//   - Only the owning user can complete an attempt.
//   - completed_at is written once; the conditional UPDATE loses cleanly to a
//     concurrent submit that committed first.
//   - (attempt_id, question_id) is unique in user_answers.
func (s *SQLiteStore) SubmitAttempt(ctx context.Context, submission quiz.Submission) (quiz.Scorecard, error) {
	if submission.CompletedAt.IsZero() {
		submission.CompletedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return quiz.Scorecard{}, err
	}
	defer tx.Rollback()

	var (
		ownerID     int64
		quizID      int64
		completedNs sql.NullInt64
	)
	err = tx.QueryRowContext(
		ctx,
		`SELECT user_id, quiz_id, completed_at_unix FROM quiz_attempts WHERE id = ?`,
		submission.AttemptID,
	).Scan(&ownerID, &quizID, &completedNs)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Scorecard{}, quiz.ErrAttemptNotFound
	}
	if err != nil {
		return quiz.Scorecard{}, err
	}
	if ownerID != submission.UserID {
		return quiz.Scorecard{}, quiz.ErrAttemptNotOwned
	}
	if completedNs.Valid {
		return quiz.Scorecard{}, quiz.ErrAttemptCompleted
	}

	questions, err := listQuestions(ctx, tx, quizID)
	if err != nil {
		return quiz.Scorecard{}, err
	}

	card := quiz.Score(questions, submission.Answers)
	card.AttemptID = submission.AttemptID
	card.CompletedAt = submission.CompletedAt.UTC()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE quiz_attempts SET score = ?, time_taken = ?, completed_at_unix = ?
		 WHERE id = ? AND completed_at_unix IS NULL`,
		card.Score,
		submission.TimeTaken,
		card.CompletedAt.UnixNano(),
		submission.AttemptID,
	)
	if err != nil {
		return quiz.Scorecard{}, err
	}
	if err := requireAffected(result, quiz.ErrAttemptCompleted); err != nil {
		return quiz.Scorecard{}, err
	}

	for idx := range card.Answers {
		answer := &card.Answers[idx]
		answer.AttemptID = submission.AttemptID

		var selected any
		if answer.SelectedAnswer != nil {
			selected = *answer.SelectedAnswer
		}
		insertResult, err := tx.ExecContext(
			ctx,
			`INSERT INTO user_answers (attempt_id, question_id, selected_answer, is_correct) VALUES (?, ?, ?, ?)`,
			answer.AttemptID,
			answer.QuestionID,
			selected,
			boolToInt(answer.IsCorrect),
		)
		if err != nil {
			return quiz.Scorecard{}, err
		}
		answer.ID, err = insertResult.LastInsertId()
		if err != nil {
			return quiz.Scorecard{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return quiz.Scorecard{}, err
	}
	return card, nil
}

func (s *SQLiteStore) ListAttemptAnswers(ctx context.Context, attemptID int64) ([]quiz.UserAnswer, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, attempt_id, question_id, selected_answer, is_correct FROM user_answers WHERE attempt_id = ? ORDER BY question_id ASC`,
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]quiz.UserAnswer, 0)
	for rows.Next() {
		var (
			answer   quiz.UserAnswer
			selected sql.NullString
		)
		if err := rows.Scan(&answer.ID, &answer.AttemptID, &answer.QuestionID, &selected, &answer.IsCorrect); err != nil {
			return nil, err
		}
		if selected.Valid {
			value := selected.String
			answer.SelectedAnswer = &value
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

// ListCompletedAttempts returns submitted attempts newest first.
func (s *SQLiteStore) ListCompletedAttempts(ctx context.Context, filter quiz.AttemptFilter) ([]quiz.CompletedAttempt, error) {
	conditions := []string{`a.completed_at_unix IS NOT NULL`}
	args := make([]any, 0, 3)
	if filter.UserID > 0 {
		conditions = append(conditions, `a.user_id = ?`)
		args = append(args, filter.UserID)
	}
	if filter.QuizID > 0 {
		conditions = append(conditions, `a.quiz_id = ?`)
		args = append(args, filter.QuizID)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, `a.completed_at_unix >= ?`)
		args = append(args, filter.Since.UnixNano())
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT a.id, a.user_id, u.username, a.quiz_id, q.title, a.score, a.total_questions, a.time_taken,
			a.started_at_unix, a.completed_at_unix
		 FROM quiz_attempts a
		 JOIN users u ON u.id = a.user_id
		 JOIN quizzes q ON q.id = a.quiz_id
		 WHERE `+strings.Join(conditions, ` AND `)+`
		 ORDER BY a.completed_at_unix DESC, a.id DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]quiz.CompletedAttempt, 0)
	for rows.Next() {
		var (
			attempt     quiz.CompletedAttempt
			startedNs   int64
			completedNs int64
		)
		if err := rows.Scan(
			&attempt.AttemptID,
			&attempt.UserID,
			&attempt.Username,
			&attempt.QuizID,
			&attempt.QuizTitle,
			&attempt.Score,
			&attempt.TotalQuestions,
			&attempt.TimeTaken,
			&startedNs,
			&completedNs,
		); err != nil {
			return nil, err
		}
		attempt.StartedAt = fromUnix(startedNs)
		attempt.CompletedAt = fromUnix(completedNs)
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// ListInactiveUsers returns learners whose latest completed attempt is before
// cutoff, plus learners who never completed one. Never-attempted users sort first.
func (s *SQLiteStore) ListInactiveUsers(ctx context.Context, cutoff time.Time) ([]quiz.InactiveUser, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT u.id, u.username, u.email, MAX(a.completed_at_unix) AS last_attempt, COUNT(a.id)
		 FROM users u
		 LEFT JOIN quiz_attempts a ON a.user_id = u.id AND a.completed_at_unix IS NOT NULL
		 WHERE u.role = ?
		 GROUP BY u.id, u.username, u.email
		 HAVING MAX(a.completed_at_unix) IS NULL OR MAX(a.completed_at_unix) < ?
		 ORDER BY last_attempt ASC, u.id ASC`,
		string(quiz.RoleUser),
		cutoff.UnixNano(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]quiz.InactiveUser, 0)
	for rows.Next() {
		var (
			user   quiz.InactiveUser
			lastNs sql.NullInt64
		)
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &lastNs, &user.TotalAttempts); err != nil {
			return nil, err
		}
		user.LastAttempt = fromNullUnix(lastNs)
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteAbandonedAttempts removes attempts that were started before the given
// time and never submitted.
func (s *SQLiteStore) DeleteAbandonedAttempts(ctx context.Context, startedBefore time.Time) (int64, error) {
	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM quiz_attempts WHERE completed_at_unix IS NULL AND started_at_unix < ?`,
		startedBefore.UnixNano(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
