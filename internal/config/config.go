package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type SMTP struct {
	Server    string
	Port      int
	User      string
	Password  string
	From      string
	DebugMode bool
}

type Schedule struct {
	Reminder     string
	AdminReport  string
	Cleanup      string
	PollInterval time.Duration
	Location     *time.Location
}

type Bootstrap struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

type Config struct {
	Addr      string
	DBPath    string
	LogFile   string
	AppURL    string
	JWTSecret string
	JWTTTL    time.Duration
	// TriviaURL is the Open Trivia DB host used by question import.
	TriviaURL string

	SMTP     SMTP
	Schedule Schedule

	SendInterval         time.Duration
	InactiveDays         int
	AbandonedAttemptDays int

	Bootstrap Bootstrap
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using process environment")
	} else {
		log.Println("[INFO] .env file loaded")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from an arbitrary lookup so tests do not touch the
// real environment.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		Addr:      r.str("ADDR", ":8080"),
		DBPath:    r.str("DB_PATH", "quiz.db"),
		LogFile:   r.str("LOG_FILE", "jobs.log"),
		AppURL:    strings.TrimRight(r.str("APP_URL", "http://localhost:5173"), "/"),
		JWTSecret: r.str("JWT_SECRET", "change-me-in-production"),
		JWTTTL:    r.duration("JWT_TTL", 24*time.Hour),
		TriviaURL: r.str("OPENTDB_URL", "https://opentdb.com"),
		SMTP: SMTP{
			Server:    r.str("SMTP_SERVER", "smtp.gmail.com"),
			Port:      r.integer("SMTP_PORT", 587),
			User:      r.str("EMAIL_USER", "your-email@gmail.com"),
			Password:  r.str("EMAIL_PASSWORD", "your-app-password"),
			From:      r.str("FROM_EMAIL", "Quiz App <noreply@quizapp.com>"),
			DebugMode: r.boolean("EMAIL_DEBUG_MODE", false),
		},
		Schedule: Schedule{
			Reminder:     r.cronSpec("REMINDER_SCHEDULE", "0 9 * * *"),
			AdminReport:  r.cronSpec("ADMIN_REPORT_SCHEDULE", "0 8 * * *"),
			Cleanup:      r.cronSpec("CLEANUP_SCHEDULE", "0 2 * * 0"),
			PollInterval: r.duration("SCHEDULER_POLL_INTERVAL", 60*time.Second),
			Location:     r.location("SCHEDULER_TIMEZONE", time.Local),
		},
		SendInterval:         r.duration("EMAIL_SEND_INTERVAL", time.Second),
		InactiveDays:         r.integer("INACTIVE_DAYS", 7),
		AbandonedAttemptDays: r.integer("ABANDONED_ATTEMPT_DAYS", 30),
		Bootstrap: Bootstrap{
			AdminUsername: r.str("ADMIN_USERNAME", "admin"),
			AdminEmail:    r.str("ADMIN_EMAIL", "admin@quizapp.com"),
			AdminPassword: r.str("ADMIN_PASSWORD", ""),
		},
	}

	if r.err != nil {
		return Config{}, r.err
	}
	if cfg.Schedule.PollInterval <= 0 {
		return Config{}, fmt.Errorf("config: SCHEDULER_POLL_INTERVAL must be positive")
	}
	if cfg.InactiveDays <= 0 {
		return Config{}, fmt.Errorf("config: INACTIVE_DAYS must be positive")
	}
	return cfg, nil
}

// reader keeps the first parse error so FromEnv can stay a flat literal.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, def string) string {
	value, ok := r.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func (r *reader) integer(key string, def int) int {
	value := r.str(key, "")
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return parsed
}

func (r *reader) boolean(key string, def bool) bool {
	value := strings.ToLower(r.str(key, ""))
	switch value {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		r.fail(key, fmt.Errorf("invalid boolean %q", value))
		return def
	}
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	value := r.str(key, "")
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return parsed
}

func (r *reader) cronSpec(key, def string) string {
	value := r.str(key, def)
	if _, err := cron.ParseStandard(value); err != nil {
		r.fail(key, err)
		return def
	}
	return value
}

func (r *reader) location(key string, def *time.Location) *time.Location {
	value := r.str(key, "")
	if value == "" {
		return def
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		r.fail(key, err)
		return def
	}
	return loc
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config: %s: %w", key, err)
	}
}
