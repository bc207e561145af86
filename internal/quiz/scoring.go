package quiz

import "time"

// Scorecard is the outcome of grading one submission.
type Scorecard struct {
	AttemptID   int64        `json:"attempt_id"`
	Score       int          `json:"score"`
	TotalPoints int          `json:"total_points"`
	Percentage  float64      `json:"percentage"`
	Answers     []UserAnswer `json:"answers"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Score grades every question of a quiz against the submitted answers.
//
// A question without a submitted answer, or with one that is not A-D, is
// recorded as unanswered and never counts as correct. Every question's points
// go into TotalPoints whether or not it was answered.
func Score(questions []Question, answers map[int64]string) Scorecard {
	card := Scorecard{
		Answers: make([]UserAnswer, 0, len(questions)),
	}

	for _, question := range questions {
		var selected *string
		if raw, ok := answers[question.ID]; ok {
			if letter := NormalizeLetter(raw); letter != "" {
				selected = &letter
			}
		}

		isCorrect := selected != nil && *selected == question.CorrectAnswer
		if isCorrect {
			card.Score += question.Points
		}
		card.TotalPoints += question.Points

		card.Answers = append(card.Answers, UserAnswer{
			QuestionID:     question.ID,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
		})
	}

	card.Percentage = PointsPercentage(card.Score, card.TotalPoints)
	return card
}

// PointsPercentage is the per-submission basis: score over the sum of the
// quiz's question points.
func PointsPercentage(score, totalPoints int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return float64(score) / float64(totalPoints) * 100
}

// AttemptPercentage is the reporting basis: score over the question count
// snapshotted when the attempt started.
func AttemptPercentage(score, totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	return float64(score) / float64(totalQuestions) * 100
}
