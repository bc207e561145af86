package httpapi

import (
	"time"

	"quiz-backend/internal/quiz"
	"quiz-backend/internal/report"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        quiz.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type startAttemptResponse struct {
	AttemptID      int64  `json:"attempt_id"`
	QuizTitle      string `json:"quiz_title"`
	TimeLimit      int    `json:"time_limit"`
	TotalQuestions int    `json:"total_questions"`
}

type submitAttemptRequest struct {
	Answers   map[string]string `json:"answers"`
	TimeTaken int               `json:"time_taken"`
}

type submitAttemptResponse struct {
	Score       int       `json:"score"`
	TotalPoints int       `json:"total_points"`
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}

type attemptDetailResponse struct {
	Attempt quiz.Attempt      `json:"attempt"`
	Answers []quiz.UserAnswer `json:"answers"`
}

type userAttemptResponse struct {
	ID             int64     `json:"id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      int       `json:"time_taken"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	Percentage     float64   `json:"percentage"`
}

type quizAttemptResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      int       `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
	Percentage     float64   `json:"percentage"`
}

type jobCountResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type jobCleanupResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type inactiveUsersResponse struct {
	Message string              `json:"message"`
	Users   []quiz.InactiveUser `json:"users"`
}

type dailyStatsResponse struct {
	Message string            `json:"message"`
	Stats   report.DailyStats `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}
