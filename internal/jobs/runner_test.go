package jobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"quiz-backend/internal/logging"
	"quiz-backend/internal/quiz"
	"quiz-backend/internal/report"
)

type fakeStore struct {
	inactive     []quiz.InactiveUser
	inactiveErr  error
	lastCutoff   time.Time
	admins       []quiz.User
	deleted      int64
	deleteErr    error
	deleteBefore time.Time
}

func (f *fakeStore) ListInactiveUsers(_ context.Context, cutoff time.Time) ([]quiz.InactiveUser, error) {
	f.lastCutoff = cutoff
	return f.inactive, f.inactiveErr
}

func (f *fakeStore) ListUsersByRole(_ context.Context, role quiz.Role) ([]quiz.User, error) {
	if role != quiz.RoleAdmin {
		return nil, nil
	}
	return f.admins, nil
}

func (f *fakeStore) DeleteAbandonedAttempts(_ context.Context, startedBefore time.Time) (int64, error) {
	f.deleteBefore = startedBefore
	return f.deleted, f.deleteErr
}

type fakeStats struct {
	stats report.DailyStats
	err   error
}

func (f fakeStats) DailyStats(context.Context) (report.DailyStats, error) {
	return f.stats, f.err
}

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent []sentMail
	fail map[string]bool
}

func (f *fakeMailer) Send(_ context.Context, to, subject, _, _ string) bool {
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return !f.fail[to]
}

func (f *fakeMailer) ValidAddress(address string) bool {
	return strings.Contains(address, "@") && strings.Contains(address, ".")
}

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestRunner(store *fakeStore, stats fakeStats, mailer *fakeMailer) (*Runner, *bytes.Buffer) {
	var logs bytes.Buffer
	runner := NewRunner(store, stats, mailer, logging.NewWithWriter(&logs), Options{
		InactiveDays:         7,
		AbandonedAttemptDays: 30,
		AppURL:               "http://localhost:5173",
	})
	runner.now = func() time.Time { return fixedNow }
	return runner, &logs
}

func TestSendUserRemindersCountsSuccessfulSends(t *testing.T) {
	last := fixedNow.AddDate(0, 0, -10)
	store := &fakeStore{inactive: []quiz.InactiveUser{
		{ID: 1, Username: "never", Email: "never@example.com"},
		{ID: 2, Username: "stale", Email: "stale@example.com", LastAttempt: &last, TotalAttempts: 3},
		{ID: 3, Username: "bounce", Email: "bounce@example.com"},
	}}
	mailer := &fakeMailer{fail: map[string]bool{"bounce@example.com": true}}
	runner, _ := newTestRunner(store, fakeStats{}, mailer)

	sent, err := runner.SendUserReminders(context.Background())
	if err != nil {
		t.Fatalf("SendUserReminders failed: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
	if len(mailer.sent) != 3 {
		t.Fatalf("expected 3 send attempts, got %d", len(mailer.sent))
	}
	if !store.lastCutoff.Equal(fixedNow.AddDate(0, 0, -7)) {
		t.Fatalf("cutoff = %v, want 7 days before now", store.lastCutoff)
	}
}

func TestSendUserRemindersReturnsQueryError(t *testing.T) {
	store := &fakeStore{inactiveErr: errors.New("db locked")}
	runner, logs := newTestRunner(store, fakeStats{}, &fakeMailer{})

	sent, err := runner.SendUserReminders(context.Background())
	if err == nil || sent != 0 {
		t.Fatalf("expected query error and zero sends, got %d, %v", sent, err)
	}
	if !strings.Contains(logs.String(), "[ERROR]") {
		t.Fatalf("expected error log, got %q", logs.String())
	}
}

func TestSendUserRemindersStopsPacingOnCancel(t *testing.T) {
	store := &fakeStore{inactive: []quiz.InactiveUser{
		{ID: 1, Username: "a", Email: "a@example.com"},
		{ID: 2, Username: "b", Email: "b@example.com"},
	}}
	mailer := &fakeMailer{}
	runner, _ := newTestRunner(store, fakeStats{}, mailer)
	runner.opts.SendInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := runner.SendUserReminders(ctx)
	if err != nil {
		t.Fatalf("SendUserReminders failed: %v", err)
	}
	if sent != 1 || len(mailer.sent) != 1 {
		t.Fatalf("expected only the first send before pacing, got sent=%d attempts=%d", sent, len(mailer.sent))
	}
}

func TestSendAdminReportSkipsInvalidAdminEmails(t *testing.T) {
	store := &fakeStore{admins: []quiz.User{
		{ID: 1, Email: "admin@quizapp.com", Role: quiz.RoleAdmin},
		{ID: 2, Email: "broken", Role: quiz.RoleAdmin},
	}}
	mailer := &fakeMailer{}
	runner, logs := newTestRunner(store, fakeStats{stats: report.DailyStats{TopQuiz: report.TopQuiz{Title: "No quizzes taken"}}}, mailer)

	sent, err := runner.SendAdminReport(context.Background())
	if err != nil {
		t.Fatalf("SendAdminReport failed: %v", err)
	}
	if sent != 1 || len(mailer.sent) != 1 || mailer.sent[0].to != "admin@quizapp.com" {
		t.Fatalf("unexpected sends: %+v", mailer.sent)
	}
	if mailer.sent[0].subject != "Daily Quiz App Report - March 10, 2024" {
		t.Fatalf("subject = %q", mailer.sent[0].subject)
	}
	if !strings.Contains(logs.String(), "invalid admin emails") {
		t.Fatalf("expected invalid admin warning, got %q", logs.String())
	}
}

func TestSendAdminReportStatsError(t *testing.T) {
	mailer := &fakeMailer{}
	runner, _ := newTestRunner(&fakeStore{}, fakeStats{err: errors.New("boom")}, mailer)

	if _, err := runner.SendAdminReport(context.Background()); err == nil {
		t.Fatalf("expected stats error")
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no mail should be sent when stats fail")
	}
}

func TestCleanupReportsBoolean(t *testing.T) {
	store := &fakeStore{deleted: 4}
	runner, _ := newTestRunner(store, fakeStats{}, &fakeMailer{})

	if !runner.Cleanup(context.Background()) {
		t.Fatalf("expected cleanup success")
	}
	if !store.deleteBefore.Equal(fixedNow.AddDate(0, 0, -30)) {
		t.Fatalf("cleanup cutoff = %v", store.deleteBefore)
	}

	store.deleteErr = errors.New("disk full")
	if runner.Cleanup(context.Background()) {
		t.Fatalf("expected cleanup failure to return false")
	}
}

func TestTrackRecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	err := Track(context.Background(), logging.NewWithWriter(&logs), "explode", func(context.Context) error {
		panic("kaboom")
	})
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected recovered panic error, got %v", err)
	}
	if !strings.Contains(logs.String(), "run=") {
		t.Fatalf("expected run id in logs, got %q", logs.String())
	}
}
