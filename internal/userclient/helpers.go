package userclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"quiz-backend/internal/quiz"
)

var commands = []struct {
	usage string
	about string
}{
	{"help", "show this list"},
	{"quizzes [chapter_id]", "list active quizzes, optionally for one chapter"},
	{"play <quiz_id>", "start an attempt and answer each question"},
	{"history", "show completed attempts, newest first"},
	{"exit", "leave"},
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %-22s %s\n", cmd.usage, cmd.about)
	}
}

func printQuestion(out io.Writer, number int, question quiz.PublicQuestion) {
	fmt.Fprintf(out, "\nQ%d (%d pt): %s\n\n", number, question.Points, question.Prompt)
	for _, option := range question.Options {
		fmt.Fprintf(out, "%s. %s\n", option.Letter, option.Text)
	}
	fmt.Fprintln(out)
}

// promptAnswer reads one line and accepts it only when it names one of the
// question's options.
func promptAnswer(reader *bufio.Reader, out io.Writer, options []quiz.Option) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	letters := make([]string, 0, len(options))
	for _, option := range options {
		letters = append(letters, option.Letter)
	}
	fmt.Fprintf(out, "Your answer (%s): ", strings.Join(letters, "/"))

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}

	letter := quiz.NormalizeLetter(line)
	for _, candidate := range letters {
		if letter != "" && letter == candidate {
			return letter, true
		}
	}
	return "", false
}

// parseID reads args[index] as a positive id; a missing argument yields 0.
func parseID(args []string, index int) (int64, error) {
	if len(args) <= index {
		return 0, nil
	}
	id, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return id, nil
}

func formatPercentage(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("not signed in: %s", apiErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("not found: %s", apiErr.Message)
		}
	}
	return err
}
