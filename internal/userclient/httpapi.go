package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quiz-backend/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the quiz service as a learner. Login stores the bearer
// token used by every later call.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	User        quiz.User `json:"user"`
}

type StartedAttempt struct {
	AttemptID      int64  `json:"attempt_id"`
	QuizTitle      string `json:"quiz_title"`
	TimeLimit      int    `json:"time_limit"`
	TotalQuestions int    `json:"total_questions"`
}

type submitRequest struct {
	Answers   map[string]string `json:"answers"`
	TimeTaken int               `json:"time_taken"`
}

type SubmitResult struct {
	Score       int     `json:"score"`
	TotalPoints int     `json:"total_points"`
	Percentage  float64 `json:"percentage"`
}

type HistoryEntry struct {
	ID             int64     `json:"id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      int       `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
	Percentage     float64   `json:"percentage"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (quiz.User, error) {
	var payload loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, &payload); err != nil {
		return quiz.User{}, err
	}
	c.token = payload.AccessToken
	return payload.User, nil
}

func (c *HTTPClient) ListQuizzes(ctx context.Context, chapterID int64) ([]quiz.Quiz, error) {
	path := "/api/quizzes"
	if chapterID > 0 {
		query := url.Values{}
		query.Set("chapter_id", strconv.FormatInt(chapterID, 10))
		path += "?" + query.Encode()
	}

	var quizzes []quiz.Quiz
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *HTTPClient) ListQuestions(ctx context.Context, quizID int64) ([]quiz.PublicQuestion, error) {
	var questions []quiz.PublicQuestion
	if err := c.doJSON(ctx, http.MethodGet, quizPath(quizID)+"/questions", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *HTTPClient) StartAttempt(ctx context.Context, quizID int64) (StartedAttempt, error) {
	var started StartedAttempt
	if err := c.doJSON(ctx, http.MethodPost, quizPath(quizID)+"/start", nil, &started); err != nil {
		return StartedAttempt{}, err
	}
	return started, nil
}

func (c *HTTPClient) SubmitAttempt(ctx context.Context, attemptID int64, answers map[int64]string, timeTaken time.Duration) (SubmitResult, error) {
	request := submitRequest{
		Answers:   make(map[string]string, len(answers)),
		TimeTaken: int(timeTaken.Seconds()),
	}
	for questionID, answer := range answers {
		request.Answers[strconv.FormatInt(questionID, 10)] = answer
	}

	var result SubmitResult
	path := "/api/attempts/" + strconv.FormatInt(attemptID, 10) + "/submit"
	if err := c.doJSON(ctx, http.MethodPost, path, request, &result); err != nil {
		return SubmitResult{}, err
	}
	return result, nil
}

func (c *HTTPClient) History(ctx context.Context) ([]HistoryEntry, error) {
	var history []HistoryEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/attempts", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func quizPath(quizID int64) string {
	return "/api/quizzes/" + strconv.FormatInt(quizID, 10)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
