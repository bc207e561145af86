package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Logger writes leveled lines to an append-only sink.
type Logger struct {
	out    *log.Logger
	closer io.Closer
}

// New logs to stderr and, when path is set, appends to that file as well.
func New(path string) (*Logger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewWithWriter(os.Stderr), nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	logger := NewWithWriter(io.MultiWriter(os.Stderr, file))
	logger.closer = file
	return logger, nil
}

func NewWithWriter(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags|log.LUTC)}
}

// Discard is used by tests and by callers that do not care about output.
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf("[INFO] ", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf("[WARN] ", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf("[ERROR] ", format, args...)
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) printf(level, format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	l.out.Printf(level+format, args...)
}
