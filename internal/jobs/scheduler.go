package jobs

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"quiz-backend/internal/config"
	"quiz-backend/internal/logging"
)

const (
	JobUserReminders = "daily-user-reminders"
	JobAdminReport   = "daily-admin-report"
	JobCleanup       = "weekly-cleanup"
)

var errCleanupFailed = errors.New("weekly cleanup reported failure")

// Job is a recurring task with a standard five-field cron cadence.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// DefaultJobs wires the three recurring jobs to their configured cadences.
func DefaultJobs(runner *Runner, schedule config.Schedule) []Job {
	return []Job{
		{
			Name: JobUserReminders,
			Spec: schedule.Reminder,
			Run: func(ctx context.Context) error {
				_, err := runner.SendUserReminders(ctx)
				return err
			},
		},
		{
			Name: JobAdminReport,
			Spec: schedule.AdminReport,
			Run: func(ctx context.Context) error {
				_, err := runner.SendAdminReport(ctx)
				return err
			},
		},
		{
			Name: JobCleanup,
			Spec: schedule.Cleanup,
			Run: func(ctx context.Context) error {
				if !runner.Cleanup(ctx) {
					return errCleanupFailed
				}
				return nil
			},
		},
	}
}

type entry struct {
	job      Job
	schedule cron.Schedule
	next     time.Time
	index    int
}

// jobQueue is a min-heap ordered by next fire time.
type jobQueue []*entry

func (q jobQueue) Len() int { return len(q) }

func (q jobQueue) Less(i, j int) bool { return lessEntry(q[i], q[j]) }

func (q jobQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *jobQueue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *jobQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler polls at a fixed interval and runs due jobs one at a time on a
// single goroutine. Start and Stop may be called from any goroutine.
type Scheduler struct {
	mu         sync.Mutex
	defs       []Job
	schedules  []cron.Schedule
	queue      jobQueue
	registered bool
	running    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	interval time.Duration
	location *time.Location
	log      *logging.Logger
	now      func() time.Time
}

func NewScheduler(jobs []Job, interval time.Duration, location *time.Location, log *logging.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	if location == nil {
		location = time.Local
	}

	schedules := make([]cron.Schedule, 0, len(jobs))
	for _, job := range jobs {
		schedule, err := cron.ParseStandard(job.Spec)
		if err != nil {
			return nil, fmt.Errorf("job %s: parse schedule %q: %w", job.Name, job.Spec, err)
		}
		schedules = append(schedules, schedule)
	}

	return &Scheduler{
		defs:      jobs,
		schedules: schedules,
		interval:  interval,
		location:  location,
		log:       log,
		now:       time.Now,
	}, nil
}

// Start registers the jobs on first use, or recomputes their fire times on a
// restart, and launches the polling loop. It is a no-op while the scheduler is
// already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if s.registered {
		s.reschedule()
	} else {
		s.register()
		s.registered = true
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.loop(loopCtx)
	s.log.Infof("job scheduler started (poll every %s)", s.interval)
}

func (s *Scheduler) register() {
	now := s.now().In(s.location)
	for idx, job := range s.defs {
		e := &entry{
			job:      job,
			schedule: s.schedules[idx],
			next:     s.schedules[idx].Next(now),
		}
		heap.Push(&s.queue, e)
		s.log.Infof("scheduled %s (%s), next run %s", job.Name, job.Spec, e.next.Format(time.RFC3339))
	}
}

// reschedule moves every entry to its next fire time after now, so fire times
// that passed while the scheduler was stopped are skipped.
func (s *Scheduler) reschedule() {
	now := s.now().In(s.location)
	for _, e := range s.queue {
		e.next = e.schedule.Next(now)
	}
	heap.Init(&s.queue)
}

// Stop cancels the loop and blocks until it has exited. No job runs after
// Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Infof("job scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Registered returns the registered job names in next-run order.
func (s *Scheduler) Registered() []string {
	type slot struct {
		name string
		next time.Time
	}

	s.mu.Lock()
	slots := make([]slot, 0, len(s.queue))
	for _, e := range s.queue {
		slots = append(slots, slot{name: e.job.Name, next: e.next})
	}
	s.mu.Unlock()

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].next.Equal(slots[j].next) {
			return slots[i].name < slots[j].name
		}
		return slots[i].next.Before(slots[j].next)
	})
	names := make([]string, 0, len(slots))
	for _, sl := range slots {
		names = append(names, sl.name)
	}
	return names
}

func lessEntry(a, b *entry) bool {
	if a.next.Equal(b.next) {
		return a.job.Name < b.job.Name
	}
	return a.next.Before(b.next)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// runDue executes every job whose fire time has passed, then reschedules it
// from the current time so missed runs are not replayed.
func (s *Scheduler) runDue(ctx context.Context) {
	now := s.now().In(s.location)
	for {
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		if s.queue.Len() == 0 || s.queue[0].next.After(now) {
			s.mu.Unlock()
			return
		}
		e := s.queue[0]
		s.mu.Unlock()

		_ = Track(ctx, s.log, e.job.Name, e.job.Run)

		s.mu.Lock()
		e.next = e.schedule.Next(now)
		heap.Fix(&s.queue, e.index)
		s.mu.Unlock()
	}
}
