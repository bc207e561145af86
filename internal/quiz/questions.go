package quiz

import (
	"html"
	"math/rand"
	"strings"

	"quiz-backend/internal/opentdb"
)

// Letters are the option labels every question carries, in display order.
var Letters = []string{"A", "B", "C", "D"}

const DefaultPoints = 1

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type Question struct {
	PublicQuestion
	CorrectAnswer string `json:"correct_answer"`
}

// PublicQuestion is what a learner sees while taking a quiz.
type PublicQuestion struct {
	ID      int64    `json:"id"`
	QuizID  int64    `json:"quiz_id"`
	Prompt  string   `json:"question"`
	Options []Option `json:"options"`
	Points  int      `json:"points"`
}

// OptionText returns the text for letter, or "" when the question has no such option.
func (q Question) OptionText(letter string) string {
	for _, option := range q.Options {
		if option.Letter == letter {
			return option.Text
		}
	}
	return ""
}

func ToPublicQuestions(questions []Question) []PublicQuestion {
	public := make([]PublicQuestion, 0, len(questions))
	for _, question := range questions {
		public = append(public, question.PublicQuestion)
	}
	return public
}

// NormalizeLetter upper-cases a submitted option and returns "" for anything
// that is not one of A-D.
func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	for _, candidate := range Letters {
		if letter == candidate {
			return letter
		}
	}
	return ""
}

func makeOptions(texts ...string) []Option {
	options := make([]Option, 0, len(texts))
	for idx, text := range texts {
		options = append(options, Option{Letter: Letters[idx], Text: text})
	}
	return options
}

// BuildQuestions converts Open Trivia DB multiple-choice items into questions
// with shuffled options. Items that do not have exactly four options are skipped.
func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		if len(item.IncorrectAnswers)+1 != len(Letters) {
			continue
		}
		questions = append(questions, buildQuestion(item))
	}
	return questions
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{
			text:      html.UnescapeString(incorrect),
			isCorrect: false,
		})
	}

	choices = append(choices, choice{
		text:      html.UnescapeString(raw.CorrectAnswer),
		isCorrect: true,
	})

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	texts := make([]string, len(choices))
	correct := ""
	for idx, candidate := range choices {
		texts[idx] = candidate.text
		if candidate.isCorrect {
			correct = Letters[idx]
		}
	}

	return Question{
		PublicQuestion: PublicQuestion{
			Prompt:  html.UnescapeString(raw.Question),
			Options: makeOptions(texts...),
			Points:  DefaultPoints,
		},
		CorrectAnswer: correct,
	}
}
