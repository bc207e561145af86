package userclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz-backend/internal/quiz"
)

func TestParseID(t *testing.T) {
	if got, err := parseID([]string{"quizzes"}, 1); err != nil || got != 0 {
		t.Fatalf("missing parseID = (%d, %v), want (0, nil)", got, err)
	}
	if got, err := parseID([]string{"play", "3"}, 1); err != nil || got != 3 {
		t.Fatalf("valid parseID = (%d, %v), want (3, nil)", got, err)
	}
	if _, err := parseID([]string{"play", "0"}, 1); err == nil {
		t.Fatalf("expected validation error for non-positive id")
	}
}

func TestPromptAnswer(t *testing.T) {
	options := []quiz.Option{{Letter: "A", Text: "4"}, {Letter: "B", Text: "5"}, {Letter: "C", Text: "6"}}

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: " b \n", want: "B", wantOK: true},
		{input: "C", want: "C", wantOK: true},
		{input: "d\n", wantOK: false},
		{input: "z\n", wantOK: false},
		{input: "\n", wantOK: false},
	}

	for _, tc := range tests {
		var out bytes.Buffer
		answer, ok := promptAnswer(bufio.NewReader(strings.NewReader(tc.input)), &out, options)
		if ok != tc.wantOK || answer != tc.want {
			t.Fatalf("promptAnswer(%q) = (%q, %t), want (%q, %t)", tc.input, answer, ok, tc.want, tc.wantOK)
		}
		if !strings.Contains(out.String(), "(A/B/C)") {
			t.Fatalf("prompt should list option letters, got %q", out.String())
		}
	}
}

func TestDescribeClientError(t *testing.T) {
	err := describeClientError(fmt.Errorf("get: %w", ErrServiceUnavailable), "http://quiz.test")
	if err.Error() != "quiz service unavailable at http://quiz.test" {
		t.Fatalf("unavailable message = %q", err)
	}
	err = describeClientError(&APIError{StatusCode: http.StatusNotFound, Message: "quiz not found"}, "")
	if err.Error() != "not found: quiz not found" {
		t.Fatalf("not found message = %q", err)
	}
}

func newLearnerServer(t *testing.T, submitted *submitRequest) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(loginResponse{AccessToken: "tok", User: quiz.User{ID: 2, Username: "ada", Role: quiz.RoleUser}})
	})
	mux.HandleFunc("GET /api/quizzes/5/questions", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]quiz.PublicQuestion{
			{ID: 11, QuizID: 5, Prompt: "2 + 2", Points: 2, Options: []quiz.Option{{Letter: "A", Text: "4"}, {Letter: "B", Text: "5"}, {Letter: "C", Text: "6"}, {Letter: "D", Text: "7"}}},
			{ID: 12, QuizID: 5, Prompt: "3 + 3", Points: 1, Options: []quiz.Option{{Letter: "A", Text: "5"}, {Letter: "B", Text: "6"}, {Letter: "C", Text: "7"}, {Letter: "D", Text: "8"}}},
		})
	})
	mux.HandleFunc("POST /api/quizzes/5/start", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(StartedAttempt{AttemptID: 40, QuizTitle: "Basic Math Quiz", TimeLimit: 30, TotalQuestions: 2})
	})
	mux.HandleFunc("POST /api/attempts/40/submit", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(submitted)
		_ = json.NewEncoder(w).Encode(SubmitResult{Score: 2, TotalPoints: 3, Percentage: 66.67})
	})
	mux.HandleFunc("GET /api/user/attempts", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]HistoryEntry{{ID: 40, QuizTitle: "Basic Math Quiz", Score: 2, TotalQuestions: 2, Percentage: 100, CompletedAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}})
	})
	return httptest.NewServer(mux)
}

func TestRunPlaySubmitsAnswersAndPrintsScore(t *testing.T) {
	var submitted submitRequest
	server := newLearnerServer(t, &submitted)
	defer server.Close()

	in := strings.NewReader("play 5\na\nx\ny\nz\nhistory\nexit\n")
	var out bytes.Buffer
	err := Run(context.Background(), in, &out, Config{Username: "ada", Password: "secret1", ServerURL: server.URL})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if submitted.Answers["11"] != "A" {
		t.Fatalf("expected answer A for question 11, got %+v", submitted.Answers)
	}
	if _, ok := submitted.Answers["12"]; ok {
		t.Fatalf("question 12 should be unanswered after three invalid inputs, got %+v", submitted.Answers)
	}

	got := out.String()
	for _, want := range []string{"logged in as ada", "Score: 2/3 (66.67%)", "Leaving question unanswered.", "Basic Math Quiz score=2/2 (100%) on 2024-03-10"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunRequiresCredentials(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(""), &out, Config{Username: "ada"}); err == nil {
		t.Fatalf("expected missing password error")
	}
}
