package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quiz-backend/internal/quiz"
)

const userColumns = `id, username, email, password_hash, role, created_at_unix`

func scanUser(row rowScanner) (quiz.User, error) {
	var (
		user      quiz.User
		role      string
		createdNs int64
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role, &createdNs); err != nil {
		return quiz.User{}, err
	}
	user.Role = quiz.Role(role)
	user.CreatedAt = fromUnix(createdNs)
	return user, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user quiz.User) (quiz.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at_unix) VALUES (?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return quiz.User{}, quiz.ErrDuplicateUser
		}
		return quiz.User{}, err
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return quiz.User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, userID int64) (quiz.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.User{}, quiz.ErrUserNotFound
	}
	return user, err
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (quiz.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.User{}, quiz.ErrUserNotFound
	}
	return user, err
}

// ListUsers returns newest accounts first.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]quiz.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at_unix DESC, id DESC`)
}

func (s *SQLiteStore) ListUsersByRole(ctx context.Context, role quiz.Role) ([]quiz.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY id ASC`, string(role))
}

func (s *SQLiteStore) queryUsers(ctx context.Context, query string, args ...any) ([]quiz.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]quiz.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, user quiz.User) error {
	result, err := s.db.ExecContext(
		ctx,
		`UPDATE users SET username = ?, email = ? WHERE id = ?`,
		user.Username,
		user.Email,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return quiz.ErrDuplicateUser
		}
		return err
	}
	return requireAffected(result, quiz.ErrUserNotFound)
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, userID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, quiz.ErrUserNotFound)
}

// CountUsersCreatedBetween counts accounts created in [from, to).
func (s *SQLiteStore) CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM users WHERE created_at_unix >= ? AND created_at_unix < ?`,
		from.UnixNano(),
		to.UnixNano(),
	).Scan(&count)
	return count, err
}
