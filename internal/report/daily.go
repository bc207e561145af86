package report

import (
	"fmt"
	"sort"
	"time"

	"quiz-backend/internal/quiz"
)

const noQuizzesTaken = "No quizzes taken"

type DayStats struct {
	ActiveUsers      int     `json:"active_users"`
	TotalAttempts    int     `json:"total_attempts"`
	AvgScore         float64 `json:"avg_score"`
	QuizzesAttempted int     `json:"quizzes_taken"`
}

type TopQuiz struct {
	Title    string  `json:"title"`
	Attempts int     `json:"attempts"`
	AvgScore float64 `json:"avg_score"`
}

// DailyStats compares today's completed attempts with yesterday's. Days are
// UTC calendar dates.
type DailyStats struct {
	Date      string   `json:"date"`
	Today     DayStats `json:"today"`
	Yesterday DayStats `json:"yesterday"`
	NewUsers  int      `json:"new_users"`
	TopQuiz   TopQuiz  `json:"top_quiz"`
}

// DayBounds returns the UTC midnight starting the day containing t and the next one.
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ComputeDaily builds the day-over-day digest. attempts must cover at least
// yesterday and today; anything else is ignored.
func ComputeDaily(attempts []quiz.CompletedAttempt, now time.Time, newUsers int) DailyStats {
	todayStart, tomorrowStart := DayBounds(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	today := make([]quiz.CompletedAttempt, 0)
	yesterday := make([]quiz.CompletedAttempt, 0)
	for _, attempt := range attempts {
		completed := attempt.CompletedAt.UTC()
		switch {
		case !completed.Before(todayStart) && completed.Before(tomorrowStart):
			today = append(today, attempt)
		case !completed.Before(yesterdayStart) && completed.Before(todayStart):
			yesterday = append(yesterday, attempt)
		}
	}

	return DailyStats{
		Date:      todayStart.Format(time.DateOnly),
		Today:     dayStats(today),
		Yesterday: dayStats(yesterday),
		NewUsers:  newUsers,
		TopQuiz:   topQuiz(today),
	}
}

func dayStats(attempts []quiz.CompletedAttempt) DayStats {
	users := make(map[int64]struct{})
	quizzes := make(map[int64]struct{})
	acc := newAccumulator()
	for _, attempt := range attempts {
		users[attempt.UserID] = struct{}{}
		quizzes[attempt.QuizID] = struct{}{}
		acc.add(attempt.Percentage())
	}

	return DayStats{
		ActiveUsers:      len(users),
		TotalAttempts:    acc.count,
		AvgScore:         Round2(acc.avg()),
		QuizzesAttempted: len(quizzes),
	}
}

// topQuiz picks the most attempted quiz, breaking ties by higher average and
// then by title.
func topQuiz(attempts []quiz.CompletedAttempt) TopQuiz {
	if len(attempts) == 0 {
		return TopQuiz{Title: noQuizzesTaken}
	}

	type quizGroup struct {
		title string
		acc   *accumulator
	}
	groups := make(map[int64]*quizGroup)
	for _, attempt := range attempts {
		g, ok := groups[attempt.QuizID]
		if !ok {
			g = &quizGroup{title: attempt.QuizTitle, acc: newAccumulator()}
			groups[attempt.QuizID] = g
		}
		g.acc.add(attempt.Percentage())
	}

	ranked := make([]*quizGroup, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.acc.count != b.acc.count {
			return a.acc.count > b.acc.count
		}
		if a.acc.avg() != b.acc.avg() {
			return a.acc.avg() > b.acc.avg()
		}
		return a.title < b.title
	})

	best := ranked[0]
	return TopQuiz{
		Title:    best.title,
		Attempts: best.acc.count,
		AvgScore: Round2(best.acc.avg()),
	}
}

// ChangeLabel describes today's value relative to yesterday's for the digest.
func ChangeLabel(today, yesterday float64) string {
	if yesterday == 0 {
		if today > 0 {
			return "New!"
		}
		return "No change"
	}

	change := (today - yesterday) / yesterday * 100
	switch {
	case change > 0:
		return fmt.Sprintf("+%.1f%%", change)
	case change < 0:
		return fmt.Sprintf("%.1f%%", change)
	default:
		return "No change"
	}
}
