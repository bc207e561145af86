package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quiz-backend/internal/userclient"
)

func main() {
	username := flag.String("username", "", "learner username (required)")
	server := flag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "error: --username is required")
		os.Exit(1)
	}
	password := os.Getenv("QUIZ_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "error: QUIZ_PASSWORD must be set")
		os.Exit(1)
	}

	err := userclient.Run(context.Background(), os.Stdin, os.Stdout, userclient.Config{
		Username:    *username,
		Password:    password,
		ServerURL:   *server,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
