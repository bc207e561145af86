package report

import (
	"context"
	"fmt"
	"time"

	"quiz-backend/internal/quiz"
)

// Source is the slice of the store the reports read from.
type Source interface {
	ListCompletedAttempts(ctx context.Context, filter quiz.AttemptFilter) ([]quiz.CompletedAttempt, error)
	CountUsersCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type Service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source) *Service {
	return &Service{
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Reports reads every completed attempt at call time. Results are never cached.
func (s *Service) Reports(ctx context.Context) (Reports, error) {
	attempts, err := s.source.ListCompletedAttempts(ctx, quiz.AttemptFilter{})
	if err != nil {
		return Reports{}, fmt.Errorf("list completed attempts: %w: %w", quiz.ErrStorage, err)
	}
	return Aggregate(attempts, s.now()), nil
}

func (s *Service) DailyStats(ctx context.Context) (DailyStats, error) {
	now := s.now()
	todayStart, tomorrowStart := DayBounds(now)

	attempts, err := s.source.ListCompletedAttempts(ctx, quiz.AttemptFilter{Since: todayStart.AddDate(0, 0, -1)})
	if err != nil {
		return DailyStats{}, fmt.Errorf("list completed attempts: %w: %w", quiz.ErrStorage, err)
	}
	newUsers, err := s.source.CountUsersCreatedBetween(ctx, todayStart, tomorrowStart)
	if err != nil {
		return DailyStats{}, fmt.Errorf("count new users: %w: %w", quiz.ErrStorage, err)
	}
	return ComputeDaily(attempts, now, newUsers), nil
}
