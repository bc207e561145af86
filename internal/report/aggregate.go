package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"quiz-backend/internal/quiz"
)

const activityWindow = 7 * 24 * time.Hour

type QuizStatistic struct {
	QuizTitle string  `json:"quiz_title"`
	Attempts  int     `json:"attempts"`
	AvgScore  float64 `json:"avg_score"`
	MaxScore  float64 `json:"max_score"`
	MinScore  float64 `json:"min_score"`
}

type UserPerformance struct {
	Username  string  `json:"username"`
	Attempts  int     `json:"attempts"`
	AvgScore  float64 `json:"avg_score"`
	BestScore float64 `json:"best_score"`
}

type DailyActivity struct {
	Date          string  `json:"date"`
	Attempts      int     `json:"attempts"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// ScoreDistribution buckets: excellent >= 80, good >= 60, fair >= 40, poor below.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

type Reports struct {
	QuizStatistics    []QuizStatistic   `json:"quiz_statistics"`
	UserPerformance   []UserPerformance `json:"user_performance"`
	UserActivity      []DailyActivity   `json:"user_activity"`
	ScoreDistribution ScoreDistribution `json:"score_distribution"`
}

// Round2 rounds a percentage half away from zero to two decimal places.
func Round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

type accumulator struct {
	count int
	sum   float64
	max   float64
	min   float64
}

func newAccumulator() *accumulator {
	return &accumulator{min: 100}
}

func (a *accumulator) add(percentage float64) {
	a.count++
	a.sum += percentage
	if percentage > a.max {
		a.max = percentage
	}
	if percentage < a.min {
		a.min = percentage
	}
}

func (a *accumulator) avg() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Aggregate builds every dashboard report from completed attempts. Each
// percentage uses the attempt basis (score over snapshot question count).
func Aggregate(attempts []quiz.CompletedAttempt, now time.Time) Reports {
	byQuiz := make(map[string]*accumulator)
	byUser := make(map[string]*accumulator)
	byDay := make(map[string]*accumulator)
	var distribution ScoreDistribution

	activitySince := now.UTC().Add(-activityWindow)

	for _, attempt := range attempts {
		percentage := attempt.Percentage()

		group(byQuiz, attempt.QuizTitle).add(percentage)
		group(byUser, attempt.Username).add(percentage)

		completed := attempt.CompletedAt.UTC()
		if !completed.Before(activitySince) {
			group(byDay, completed.Format(time.DateOnly)).add(percentage)
		}

		switch {
		case percentage >= 80:
			distribution.Excellent++
		case percentage >= 60:
			distribution.Good++
		case percentage >= 40:
			distribution.Fair++
		default:
			distribution.Poor++
		}
	}

	return Reports{
		QuizStatistics:    quizStatistics(byQuiz),
		UserPerformance:   userPerformance(byUser),
		UserActivity:      userActivity(byDay),
		ScoreDistribution: distribution,
	}
}

func group(groups map[string]*accumulator, key string) *accumulator {
	acc, ok := groups[key]
	if !ok {
		acc = newAccumulator()
		groups[key] = acc
	}
	return acc
}

func quizStatistics(groups map[string]*accumulator) []QuizStatistic {
	stats := make([]QuizStatistic, 0, len(groups))
	for title, acc := range groups {
		stats = append(stats, QuizStatistic{
			QuizTitle: title,
			Attempts:  acc.count,
			AvgScore:  Round2(acc.avg()),
			MaxScore:  Round2(acc.max),
			MinScore:  Round2(acc.min),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Attempts != stats[j].Attempts {
			return stats[i].Attempts > stats[j].Attempts
		}
		return stats[i].QuizTitle < stats[j].QuizTitle
	})
	return stats
}

func userPerformance(groups map[string]*accumulator) []UserPerformance {
	users := make([]UserPerformance, 0, len(groups))
	for username, acc := range groups {
		users = append(users, UserPerformance{
			Username:  username,
			Attempts:  acc.count,
			AvgScore:  Round2(acc.avg()),
			BestScore: Round2(acc.max),
		})
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].AvgScore != users[j].AvgScore {
			return users[i].AvgScore > users[j].AvgScore
		}
		return users[i].Username < users[j].Username
	})
	return users
}

func userActivity(groups map[string]*accumulator) []DailyActivity {
	days := make([]DailyActivity, 0, len(groups))
	for date, acc := range groups {
		days = append(days, DailyActivity{
			Date:          date,
			Attempts:      acc.count,
			AvgPercentage: Round2(acc.avg()),
		})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
