package opentdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTriviaServer(t *testing.T, status int, body string, seen *http.Request) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r.Clone(context.Background())
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchQuestionsQueryParameters(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		want   string
	}{
		{name: "default", amount: 0, want: "10"},
		{name: "explicit", amount: 7, want: "7"},
		{name: "capped", amount: 500, want: "50"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen http.Request
			server := newTriviaServer(t, http.StatusOK, `{"response_code":0,"results":[]}`, &seen)
			client := NewClient(server.Client(), WithBaseURL(server.URL+"/"))

			if _, err := client.FetchQuestions(context.Background(), tc.amount); err != nil {
				t.Fatalf("FetchQuestions: %v", err)
			}
			if seen.URL.Path != "/api.php" {
				t.Fatalf("path = %q, want /api.php", seen.URL.Path)
			}
			if got := seen.URL.Query().Get("amount"); got != tc.want {
				t.Fatalf("amount = %q, want %q", got, tc.want)
			}
			if got := seen.URL.Query().Get("type"); got != "multiple" {
				t.Fatalf("type = %q, want multiple", got)
			}
		})
	}
}

func TestFetchQuestionsDropsNonMultipleChoice(t *testing.T) {
	body := `{"response_code":0,"results":[
		{"type":"multiple","question":"Capital of France?","correct_answer":"Paris","incorrect_answers":["Rome","Berlin","Madrid"]},
		{"type":"boolean","question":"The sky is green.","correct_answer":"False","incorrect_answers":["True"]}
	]}`
	server := newTriviaServer(t, http.StatusOK, body, nil)
	client := NewClient(server.Client(), WithBaseURL(server.URL))

	questions, err := client.FetchQuestions(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchQuestions: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "Paris" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestFetchQuestionsErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		upstream bool
		contains string
	}{
		{name: "bad gateway", status: http.StatusBadGateway, upstream: true, contains: "http status 502"},
		{name: "rate limited", status: http.StatusOK, body: `{"response_code":5,"results":[]}`, upstream: true, contains: "rate limited"},
		{name: "unknown code", status: http.StatusOK, body: `{"response_code":9}`, upstream: true, contains: "unknown response code"},
		{name: "malformed", status: http.StatusOK, body: "not-json", contains: "decode opentdb response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newTriviaServer(t, tc.status, tc.body, nil)
			client := NewClient(server.Client(), WithBaseURL(server.URL))

			_, err := client.FetchQuestions(context.Background(), 3)
			if err == nil {
				t.Fatalf("expected error")
			}
			if errors.Is(err, ErrUpstream) != tc.upstream {
				t.Fatalf("errors.Is(ErrUpstream) = %t, want %t (%v)", !tc.upstream, tc.upstream, err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("error %q does not mention %q", err, tc.contains)
			}
		})
	}
}
