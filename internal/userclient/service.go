package userclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultServer            = "http://127.0.0.1:8080"
	defaultHTTPTimeout       = 5 * time.Second
	defaultMaxInvalidAnswers = 3
)

type Config struct {
	Username          string
	Password          string
	ServerURL         string
	MaxInvalidAnswers int
	HTTPTimeout       time.Duration
}

// Run logs in and then reads commands from in until exit or EOF. Scoring
// happens on the server when a played quiz is submitted.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || cfg.Password == "" {
		return errors.New("username and password are required")
	}

	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	user, err := client.Login(ctx, username, cfg.Password)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "quiz-learner\nlogged in as %s (%s)\nserver=%s\n\n", user.Username, user.Role, serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "quizzes":
			chapterID, parseErr := parseID(args, 1)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid chapter_id: %v\n", parseErr)
				continue
			}
			if err := runList(ctx, out, client, chapterID, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "history":
			if err := runHistory(ctx, out, client, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "play":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: play <quiz_id>")
				continue
			}
			quizID, parseErr := parseID(args, 1)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid quiz_id: %v\n", parseErr)
				continue
			}
			if err := runPlay(ctx, reader, out, client, quizID, maxInvalidAnswers, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runList(ctx context.Context, out io.Writer, client *HTTPClient, chapterID int64, serverURL string) error {
	quizzes, err := client.ListQuizzes(ctx, chapterID)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No active quizzes.")
		return nil
	}

	fmt.Fprintln(out, "Active quizzes:")
	for _, item := range quizzes {
		fmt.Fprintf(out, "%d. %s (%d questions, %d min)\n", item.ID, item.Title, item.QuestionCount, item.TimeLimit)
	}
	return nil
}

func runHistory(ctx context.Context, out io.Writer, client *HTTPClient, serverURL string) error {
	history, err := client.History(ctx)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	if len(history) == 0 {
		fmt.Fprintln(out, "No completed attempts yet.")
		return nil
	}

	fmt.Fprintln(out, "Completed attempts:")
	for _, entry := range history {
		fmt.Fprintf(out, "%s score=%d/%d (%s) on %s\n",
			entry.QuizTitle,
			entry.Score,
			entry.TotalQuestions,
			formatPercentage(entry.Percentage),
			entry.CompletedAt.Format(time.DateOnly),
		)
	}
	return nil
}

func runPlay(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, quizID int64, maxInvalidAnswers int, serverURL string) error {
	questions, err := client.ListQuestions(ctx, quizID)
	if err != nil {
		return describeClientError(err, serverURL)
	}
	if len(questions) == 0 {
		fmt.Fprintf(out, "quiz %d has no questions yet.\n", quizID)
		return nil
	}

	started, err := client.StartAttempt(ctx, quizID)
	if err != nil {
		return describeClientError(err, serverURL)
	}
	fmt.Fprintf(out, "%s: %d questions, %d minutes\n", started.QuizTitle, started.TotalQuestions, started.TimeLimit)

	began := time.Now()
	answers := make(map[int64]string, len(questions))
	for idx, question := range questions {
		printQuestion(out, idx+1, question)

		for invalidCount := 0; ; {
			answer, ok := promptAnswer(reader, out, question.Options)
			if ok {
				answers[question.ID] = answer
				break
			}
			invalidCount++
			if invalidCount >= maxInvalidAnswers {
				fmt.Fprintln(out, "Leaving question unanswered.")
				break
			}
			fmt.Fprintf(out, "Invalid input. Attempts remaining: %d\n", maxInvalidAnswers-invalidCount)
		}
	}

	result, err := client.SubmitAttempt(ctx, started.AttemptID, answers, time.Since(began))
	if err != nil {
		return describeClientError(err, serverURL)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score: %d/%d (%s)\n", result.Score, result.TotalPoints, formatPercentage(result.Percentage))
	return nil
}
