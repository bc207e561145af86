package quiz

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type Chapter struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type Quiz struct {
	ID            int64     `json:"id"`
	ChapterID     int64     `json:"chapter_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	TimeLimit     int       `json:"time_limit"` // minutes
	IsActive      bool      `json:"is_active"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"question_count"`
}

// Attempt is one learner's run through a quiz. Score and CompletedAt stay nil
// until the attempt is submitted.
type Attempt struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	QuizID         int64      `json:"quiz_id"`
	Score          *int       `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	TimeTaken      int        `json:"time_taken"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

func (a Attempt) Completed() bool {
	return a.CompletedAt != nil
}

type UserAnswer struct {
	ID             int64   `json:"id"`
	AttemptID      int64   `json:"attempt_id"`
	QuestionID     int64   `json:"question_id"`
	SelectedAnswer *string `json:"selected_answer"`
	IsCorrect      bool    `json:"is_correct"`
}

// CompletedAttempt is the read model used by history listings and reports.
type CompletedAttempt struct {
	AttemptID      int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	QuizID         int64     `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      int       `json:"time_taken"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Percentage uses the snapshot question count as denominator.
func (a CompletedAttempt) Percentage() float64 {
	return AttemptPercentage(a.Score, a.TotalQuestions)
}

type InactiveUser struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	LastAttempt   *time.Time `json:"last_attempt"`
	TotalAttempts int        `json:"total_attempts"`
}

// Submission carries a learner's answers keyed by question id.
type Submission struct {
	AttemptID   int64
	UserID      int64
	Answers     map[int64]string
	TimeTaken   int
	CompletedAt time.Time
}

type QuizFilter struct {
	ChapterID  int64
	ActiveOnly bool
}

// AttemptFilter narrows completed-attempt reads. Zero values mean "any".
type AttemptFilter struct {
	UserID int64
	QuizID int64
	Since  time.Time
}

type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, userID int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListUsersByRole(ctx context.Context, role Role) ([]User, error)
	UpdateUser(ctx context.Context, user User) error
	DeleteUser(ctx context.Context, userID int64) error
	CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type CatalogRepository interface {
	CreateSubject(ctx context.Context, subject Subject) (Subject, error)
	GetSubject(ctx context.Context, subjectID int64) (Subject, error)
	ListSubjects(ctx context.Context, activeOnly bool) ([]Subject, error)
	DeleteSubject(ctx context.Context, subjectID int64) error

	CreateChapter(ctx context.Context, chapter Chapter) (Chapter, error)
	GetChapter(ctx context.Context, chapterID int64) (Chapter, error)
	ListChapters(ctx context.Context, subjectID int64, activeOnly bool) ([]Chapter, error)
	DeleteChapter(ctx context.Context, chapterID int64) error
}

type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz Quiz) (Quiz, error)
	UpdateQuiz(ctx context.Context, quiz Quiz) error
	GetQuiz(ctx context.Context, quizID int64) (Quiz, error)
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]Quiz, error)
	DeleteQuiz(ctx context.Context, quizID int64) error

	AddQuestions(ctx context.Context, quizID int64, questions []Question) ([]Question, error)
	UpdateQuestion(ctx context.Context, question Question) error
	GetQuestion(ctx context.Context, questionID int64) (Question, error)
	ListQuestions(ctx context.Context, quizID int64) ([]Question, error)
	DeleteQuestion(ctx context.Context, questionID int64) error
}

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt Attempt) (Attempt, error)
	GetAttempt(ctx context.Context, attemptID int64) (Attempt, error)
	// SubmitAttempt scores and completes an attempt in a single transaction.
	SubmitAttempt(ctx context.Context, submission Submission) (Scorecard, error)
	ListAttemptAnswers(ctx context.Context, attemptID int64) ([]UserAnswer, error)
	ListCompletedAttempts(ctx context.Context, filter AttemptFilter) ([]CompletedAttempt, error)
	ListInactiveUsers(ctx context.Context, cutoff time.Time) ([]InactiveUser, error)
	DeleteAbandonedAttempts(ctx context.Context, startedBefore time.Time) (int64, error)
}

type Store interface {
	UserRepository
	CatalogRepository
	QuizRepository
	AttemptRepository
}
