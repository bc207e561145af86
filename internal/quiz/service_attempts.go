package quiz

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("quiz-backend/quiz")

// StartAttempt opens an attempt on an active quiz and snapshots its current
// question count.
func (s *Service) StartAttempt(ctx context.Context, actor User, quizID int64) (Attempt, Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, Quiz{}, storageError("get quiz", err)
	}
	if !quiz.IsActive {
		return Attempt{}, Quiz{}, ErrQuizNotFound
	}

	attempt, err := s.store.CreateAttempt(ctx, Attempt{
		UserID:         actor.ID,
		QuizID:         quiz.ID,
		TotalQuestions: quiz.QuestionCount,
		StartedAt:      s.now(),
	})
	if err != nil {
		return Attempt{}, Quiz{}, storageError("create attempt", err)
	}
	return attempt, quiz, nil
}

// SubmitAttempt grades answers keyed by question id and completes the attempt.
// An attempt can be submitted once.
func (s *Service) SubmitAttempt(ctx context.Context, actor User, attemptID int64, answers map[string]string, timeTaken int) (Scorecard, error) {
	ctx, span := tracer.Start(ctx, "quiz.SubmitAttempt")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("attempt.id", attemptID),
		attribute.Int64("user.id", actor.ID),
		attribute.Int("answers.count", len(answers)),
	)

	card, err := s.submitAttempt(ctx, actor, attemptID, answers, timeTaken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Scorecard{}, err
	}
	span.SetAttributes(
		attribute.Int("attempt.score", card.Score),
		attribute.Int("attempt.total_points", card.TotalPoints),
	)
	return card, nil
}

func (s *Service) submitAttempt(ctx context.Context, actor User, attemptID int64, answers map[string]string, timeTaken int) (Scorecard, error) {
	if attemptID <= 0 {
		return Scorecard{}, invalid("attempt_id", "must be greater than 0")
	}
	if timeTaken < 0 {
		return Scorecard{}, invalid("time_taken", "must be at least 0")
	}

	parsed, err := parseAnswerKeys(answers)
	if err != nil {
		return Scorecard{}, err
	}

	card, err := s.store.SubmitAttempt(ctx, Submission{
		AttemptID:   attemptID,
		UserID:      actor.ID,
		Answers:     parsed,
		TimeTaken:   timeTaken,
		CompletedAt: s.now(),
	})
	return card, storageError("submit attempt", err)
}

func parseAnswerKeys(answers map[string]string) (map[int64]string, error) {
	parsed := make(map[int64]string, len(answers))
	for key, answer := range answers {
		questionID, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil || questionID <= 0 {
			return nil, invalid("answers", "question id "+strconv.Quote(key)+" is not a positive integer")
		}
		parsed[questionID] = answer
	}
	return parsed, nil
}

// GetAttempt returns an attempt with its recorded answers. Learners can only
// read their own attempts.
func (s *Service) GetAttempt(ctx context.Context, actor User, attemptID int64) (Attempt, []UserAnswer, error) {
	attempt, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, nil, storageError("get attempt", err)
	}
	if attempt.UserID != actor.ID && !actor.IsAdmin() {
		return Attempt{}, nil, ErrAttemptNotOwned
	}

	answers, err := s.store.ListAttemptAnswers(ctx, attemptID)
	if err != nil {
		return Attempt{}, nil, storageError("list answers", err)
	}
	return attempt, answers, nil
}

// ListUserAttempts is the actor's completed-attempt history, newest first.
func (s *Service) ListUserAttempts(ctx context.Context, actor User) ([]CompletedAttempt, error) {
	attempts, err := s.store.ListCompletedAttempts(ctx, AttemptFilter{UserID: actor.ID})
	return attempts, storageError("list attempts", err)
}

// ListQuizAttempts returns every completed attempt on a quiz for admins and
// only the actor's own attempts otherwise.
func (s *Service) ListQuizAttempts(ctx context.Context, actor User, quizID int64) ([]CompletedAttempt, error) {
	if _, err := s.GetQuiz(ctx, actor, quizID); err != nil {
		return nil, err
	}

	filter := AttemptFilter{QuizID: quizID}
	if !actor.IsAdmin() {
		filter.UserID = actor.ID
	}
	attempts, err := s.store.ListCompletedAttempts(ctx, filter)
	return attempts, storageError("list attempts", err)
}
