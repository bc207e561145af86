package jobs

import (
	"context"
	"time"

	"quiz-backend/internal/logging"
	"quiz-backend/internal/notify"
	"quiz-backend/internal/quiz"
	"quiz-backend/internal/report"
)

type Store interface {
	ListInactiveUsers(ctx context.Context, cutoff time.Time) ([]quiz.InactiveUser, error)
	ListUsersByRole(ctx context.Context, role quiz.Role) ([]quiz.User, error)
	DeleteAbandonedAttempts(ctx context.Context, startedBefore time.Time) (int64, error)
}

type StatsSource interface {
	DailyStats(ctx context.Context) (report.DailyStats, error)
}

// Mailer is satisfied by *notify.Sender.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) bool
	ValidAddress(address string) bool
}

type Options struct {
	InactiveDays         int
	AbandonedAttemptDays int
	SendInterval         time.Duration
	AppURL               string
}

// Runner holds the job bodies. Scheduled and manual runs call the same methods.
type Runner struct {
	store  Store
	stats  StatsSource
	mailer Mailer
	log    *logging.Logger
	opts   Options
	now    func() time.Time
}

func NewRunner(store Store, stats StatsSource, mailer Mailer, log *logging.Logger, opts Options) *Runner {
	if opts.InactiveDays <= 0 {
		opts.InactiveDays = 7
	}
	if opts.AbandonedAttemptDays <= 0 {
		opts.AbandonedAttemptDays = 30
	}
	return &Runner{
		store:  store,
		stats:  stats,
		mailer: mailer,
		log:    log,
		opts:   opts,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *Runner) InactiveUsers(ctx context.Context) ([]quiz.InactiveUser, error) {
	cutoff := r.now().AddDate(0, 0, -r.opts.InactiveDays)
	users, err := r.store.ListInactiveUsers(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Runner) DailyStats(ctx context.Context) (report.DailyStats, error) {
	return r.stats.DailyStats(ctx)
}

// SendUserReminders emails every inactive learner and returns how many sends
// succeeded. A failed send is logged and skipped; only the initial query can
// return an error.
func (r *Runner) SendUserReminders(ctx context.Context) (int, error) {
	r.log.Infof("starting daily user reminders job")

	users, err := r.InactiveUsers(ctx)
	if err != nil {
		r.log.Errorf("daily user reminders: list inactive users: %v", err)
		return 0, err
	}

	sent := 0
	for idx, user := range users {
		if idx > 0 {
			if err := r.pause(ctx); err != nil {
				r.log.Warnf("daily user reminders interrupted after %d of %d users: %v", idx, len(users), err)
				return sent, nil
			}
		}

		email, err := notify.RenderReminder(notify.ReminderData{
			Username:      user.Username,
			TotalAttempts: user.TotalAttempts,
			LastAttempt:   user.LastAttempt,
			DashboardURL:  r.opts.AppURL + "/dashboard",
		})
		if err != nil {
			r.log.Errorf("render reminder for %s: %v", user.Username, err)
			continue
		}
		if r.mailer.Send(ctx, user.Email, email.Subject, email.HTML, email.Text) {
			sent++
		}
	}

	r.log.Infof("daily user reminders completed: sent %d emails to %d inactive users", sent, len(users))
	return sent, nil
}

// SendAdminReport emails the daily digest to every admin with a valid address.
func (r *Runner) SendAdminReport(ctx context.Context) (int, error) {
	r.log.Infof("starting daily admin report job")

	stats, err := r.stats.DailyStats(ctx)
	if err != nil {
		r.log.Errorf("daily admin report: compute stats: %v", err)
		return 0, err
	}
	recipients, err := r.adminEmails(ctx)
	if err != nil {
		r.log.Errorf("daily admin report: list admins: %v", err)
		return 0, err
	}
	r.log.Infof("found %d valid admin emails", len(recipients))

	email, err := notify.RenderAdminReport(stats, r.now(), r.opts.AppURL+"/admin")
	if err != nil {
		r.log.Errorf("daily admin report: render: %v", err)
		return 0, err
	}

	sent := 0
	for idx, to := range recipients {
		if idx > 0 {
			if err := r.pause(ctx); err != nil {
				r.log.Warnf("daily admin report interrupted after %d of %d admins: %v", idx, len(recipients), err)
				return sent, nil
			}
		}
		if r.mailer.Send(ctx, to, email.Subject, email.HTML, email.Text) {
			sent++
		}
	}

	r.log.Infof("daily admin report completed: sent %d emails to %d admins", sent, len(recipients))
	return sent, nil
}

func (r *Runner) adminEmails(ctx context.Context) ([]string, error) {
	admins, err := r.store.ListUsersByRole(ctx, quiz.RoleAdmin)
	if err != nil {
		return nil, err
	}

	valid := make([]string, 0, len(admins))
	invalid := make([]string, 0)
	for _, admin := range admins {
		if r.mailer.ValidAddress(admin.Email) {
			valid = append(valid, admin.Email)
		} else {
			invalid = append(invalid, admin.Email)
		}
	}
	if len(invalid) > 0 {
		r.log.Warnf("found %d invalid admin emails: %v", len(invalid), invalid)
	}
	return valid, nil
}

// Cleanup removes attempts that were started long ago and never submitted.
// It reports success instead of returning an error.
func (r *Runner) Cleanup(ctx context.Context) (ok bool) {
	r.log.Infof("starting weekly cleanup job")
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorf("weekly cleanup panicked: %v", rec)
			ok = false
		}
	}()

	cutoff := r.now().AddDate(0, 0, -r.opts.AbandonedAttemptDays)
	deleted, err := r.store.DeleteAbandonedAttempts(ctx, cutoff)
	if err != nil {
		r.log.Errorf("weekly cleanup failed: %v", err)
		return false
	}

	r.log.Infof("weekly cleanup completed: removed %d abandoned attempts started before %s", deleted, cutoff.Format(time.DateOnly))
	return true
}

func (r *Runner) pause(ctx context.Context) error {
	if r.opts.SendInterval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(r.opts.SendInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
