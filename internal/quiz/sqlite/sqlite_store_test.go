package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"quiz-backend/internal/quiz"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-journal")
	})
	return store
}

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func mustCreateUser(t *testing.T, store *SQLiteStore, username string, role quiz.Role, createdAt time.Time) quiz.User {
	t.Helper()

	user, err := store.CreateUser(context.Background(), quiz.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    createdAt,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

// seedQuiz creates subject -> chapter -> quiz with three one-point questions
// whose correct answers are A, B and C.
func seedQuiz(t *testing.T, store *SQLiteStore, adminID int64, title string) (quiz.Quiz, []quiz.Question) {
	t.Helper()
	ctx := context.Background()

	subject, err := store.CreateSubject(ctx, quiz.Subject{Name: "Subject " + title, IsActive: true, CreatedBy: adminID, CreatedAt: baseTime})
	if err != nil {
		t.Fatalf("CreateSubject failed: %v", err)
	}
	chapter, err := store.CreateChapter(ctx, quiz.Chapter{SubjectID: subject.ID, Name: "Chapter", IsActive: true, CreatedBy: adminID, CreatedAt: baseTime})
	if err != nil {
		t.Fatalf("CreateChapter failed: %v", err)
	}
	item, err := store.CreateQuiz(ctx, quiz.Quiz{ChapterID: chapter.ID, Title: title, TimeLimit: 30, IsActive: true, CreatedBy: adminID, CreatedAt: baseTime})
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}

	questions := make([]quiz.Question, 0, 3)
	for _, correct := range []string{"A", "B", "C"} {
		questions = append(questions, quiz.Question{
			PublicQuestion: quiz.PublicQuestion{
				Prompt: "Pick " + correct,
				Options: []quiz.Option{
					{Letter: "A", Text: "a"},
					{Letter: "B", Text: "b"},
					{Letter: "C", Text: "c"},
					{Letter: "D", Text: "d"},
				},
				Points: 1,
			},
			CorrectAnswer: correct,
		})
	}
	added, err := store.AddQuestions(ctx, item.ID, questions)
	if err != nil {
		t.Fatalf("AddQuestions failed: %v", err)
	}
	return item, added
}

func mustStartAttempt(t *testing.T, store *SQLiteStore, userID, quizID int64, startedAt time.Time) quiz.Attempt {
	t.Helper()

	attempt, err := store.CreateAttempt(context.Background(), quiz.Attempt{
		UserID:         userID,
		QuizID:         quizID,
		TotalQuestions: 3,
		StartedAt:      startedAt,
	})
	if err != nil {
		t.Fatalf("CreateAttempt failed: %v", err)
	}
	return attempt
}

func TestNewSQLiteStoreConnectionSettings(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	var timeout, foreignKeys int
	if err := store.db.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if err := store.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&foreignKeys); err != nil {
		t.Fatalf("read foreign_keys: %v", err)
	}
	if timeout != 5000 || foreignKeys != 1 {
		t.Fatalf("busy_timeout=%d foreign_keys=%d, want 5000 and 1", timeout, foreignKeys)
	}
}

func TestSQLiteStoreCreateUserRejectsDuplicates(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "alice", quiz.RoleUser, baseTime)

	_, err := store.CreateUser(ctx, quiz.User{Username: "alice", Email: "other@example.com", PasswordHash: "x", Role: quiz.RoleUser})
	if !errors.Is(err, quiz.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser for username, got %v", err)
	}
	_, err = store.CreateUser(ctx, quiz.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x", Role: quiz.RoleUser})
	if !errors.Is(err, quiz.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser for email, got %v", err)
	}

	got, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if got.Role != quiz.RoleUser || !got.CreatedAt.Equal(baseTime) {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, quiz.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSQLiteStoreQuizQuestionCountAndFilters(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)

	item, _ := seedQuiz(t, store, admin.ID, "Basic Math Quiz")

	got, err := store.GetQuiz(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetQuiz failed: %v", err)
	}
	if got.QuestionCount != 3 {
		t.Fatalf("question count = %d, want 3", got.QuestionCount)
	}

	got.IsActive = false
	if err := store.UpdateQuiz(ctx, got); err != nil {
		t.Fatalf("UpdateQuiz failed: %v", err)
	}

	active, err := store.ListQuizzes(ctx, quiz.QuizFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListQuizzes failed: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active quizzes, got %d", len(active))
	}

	all, err := store.ListQuizzes(ctx, quiz.QuizFilter{ChapterID: item.ChapterID})
	if err != nil {
		t.Fatalf("ListQuizzes failed: %v", err)
	}
	if len(all) != 1 || all[0].Title != "Basic Math Quiz" {
		t.Fatalf("unexpected quizzes: %+v", all)
	}
}

func TestSQLiteStoreSubmitAttemptScoresAndPersistsAnswers(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	learner := mustCreateUser(t, store, "learner", quiz.RoleUser, baseTime)
	item, questions := seedQuiz(t, store, admin.ID, "Basic Math Quiz")

	attempt := mustStartAttempt(t, store, learner.ID, item.ID, baseTime)
	completedAt := baseTime.Add(5 * time.Minute)

	card, err := store.SubmitAttempt(ctx, quiz.Submission{
		AttemptID: attempt.ID,
		UserID:    learner.ID,
		Answers: map[int64]string{
			questions[0].ID: "A",
			questions[1].ID: "D",
		},
		TimeTaken:   300,
		CompletedAt: completedAt,
	})
	if err != nil {
		t.Fatalf("SubmitAttempt failed: %v", err)
	}
	if card.Score != 1 || card.TotalPoints != 3 {
		t.Fatalf("score = %d/%d, want 1/3", card.Score, card.TotalPoints)
	}

	stored, err := store.GetAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt failed: %v", err)
	}
	if stored.Score == nil || *stored.Score != 1 {
		t.Fatalf("stored score = %v, want 1", stored.Score)
	}
	if stored.CompletedAt == nil || !stored.CompletedAt.Equal(completedAt) {
		t.Fatalf("stored completed_at = %v, want %v", stored.CompletedAt, completedAt)
	}
	if stored.TimeTaken != 300 {
		t.Fatalf("stored time_taken = %d, want 300", stored.TimeTaken)
	}

	answers, err := store.ListAttemptAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("ListAttemptAnswers failed: %v", err)
	}
	if len(answers) != len(questions) {
		t.Fatalf("expected %d answers, got %d", len(questions), len(answers))
	}
	if answers[2].SelectedAnswer != nil || answers[2].IsCorrect {
		t.Fatalf("unanswered question stored incorrectly: %+v", answers[2])
	}
}

func TestSQLiteStoreSubmitAttemptRollsBackOnAnswerInsertFailure(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	learner := mustCreateUser(t, store, "learner", quiz.RoleUser, baseTime)
	item, questions := seedQuiz(t, store, admin.ID, "Basic Math Quiz")
	attempt := mustStartAttempt(t, store, learner.ID, item.ID, baseTime)

	trigger := `CREATE TRIGGER fail_answer BEFORE INSERT ON user_answers
		WHEN NEW.question_id = ` + strconv.FormatInt(questions[2].ID, 10) + `
		BEGIN SELECT RAISE(ABORT, 'answer insert failed'); END`
	if _, err := store.db.ExecContext(ctx, trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	submission := quiz.Submission{
		AttemptID:   attempt.ID,
		UserID:      learner.ID,
		Answers:     map[int64]string{questions[0].ID: "A", questions[1].ID: "B", questions[2].ID: "C"},
		TimeTaken:   60,
		CompletedAt: baseTime.Add(time.Minute),
	}
	if _, err := store.SubmitAttempt(ctx, submission); err == nil {
		t.Fatalf("expected SubmitAttempt to fail")
	}

	stored, err := store.GetAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt failed: %v", err)
	}
	if stored.CompletedAt != nil || stored.Score != nil {
		t.Fatalf("attempt changed by failed submit: completed=%v score=%v", stored.CompletedAt, stored.Score)
	}
	answers, err := store.ListAttemptAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("ListAttemptAnswers failed: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected no answer rows after rollback, got %d", len(answers))
	}

	if _, err := store.db.ExecContext(ctx, `DROP TRIGGER fail_answer`); err != nil {
		t.Fatalf("drop trigger: %v", err)
	}
	card, err := store.SubmitAttempt(ctx, submission)
	if err != nil {
		t.Fatalf("retry SubmitAttempt failed: %v", err)
	}
	if card.Score != 3 {
		t.Fatalf("retry score = %d, want 3", card.Score)
	}
}

func TestSQLiteStoreUpdateUser(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, store, "alice", quiz.RoleUser, baseTime)
	mustCreateUser(t, store, "bob", quiz.RoleUser, baseTime)

	alice.Username = "alice2"
	alice.Email = "alice2@example.com"
	if err := store.UpdateUser(ctx, alice); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, err := store.GetUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Username != "alice2" || got.Email != "alice2@example.com" {
		t.Fatalf("unexpected user after update: %+v", got)
	}

	taken := alice
	taken.Email = "bob@example.com"
	if err := store.UpdateUser(ctx, taken); !errors.Is(err, quiz.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	missing := alice
	missing.ID = 9999
	missing.Username = "ghost"
	missing.Email = "ghost@example.com"
	if err := store.UpdateUser(ctx, missing); !errors.Is(err, quiz.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSQLiteStoreSubmitAttemptRejectsResubmission(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	learner := mustCreateUser(t, store, "learner", quiz.RoleUser, baseTime)
	item, questions := seedQuiz(t, store, admin.ID, "Basic Math Quiz")
	attempt := mustStartAttempt(t, store, learner.ID, item.ID, baseTime)

	submission := quiz.Submission{
		AttemptID:   attempt.ID,
		UserID:      learner.ID,
		Answers:     map[int64]string{questions[0].ID: "A"},
		CompletedAt: baseTime.Add(time.Minute),
	}
	if _, err := store.SubmitAttempt(ctx, submission); err != nil {
		t.Fatalf("first SubmitAttempt failed: %v", err)
	}

	submission.Answers = map[int64]string{questions[0].ID: "A", questions[1].ID: "B", questions[2].ID: "C"}
	if _, err := store.SubmitAttempt(ctx, submission); !errors.Is(err, quiz.ErrAttemptCompleted) {
		t.Fatalf("expected ErrAttemptCompleted, got %v", err)
	}

	stored, err := store.GetAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt failed: %v", err)
	}
	if stored.Score == nil || *stored.Score != 1 {
		t.Fatalf("resubmission changed score to %v", stored.Score)
	}
	answers, err := store.ListAttemptAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("ListAttemptAnswers failed: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers after rejected resubmission, got %d", len(answers))
	}
}

func TestSQLiteStoreSubmitAttemptOwnershipAndMissing(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	owner := mustCreateUser(t, store, "owner", quiz.RoleUser, baseTime)
	other := mustCreateUser(t, store, "other", quiz.RoleUser, baseTime)
	item, _ := seedQuiz(t, store, admin.ID, "Basic Math Quiz")
	attempt := mustStartAttempt(t, store, owner.ID, item.ID, baseTime)

	_, err := store.SubmitAttempt(ctx, quiz.Submission{AttemptID: attempt.ID, UserID: other.ID})
	if !errors.Is(err, quiz.ErrAttemptNotOwned) {
		t.Fatalf("expected ErrAttemptNotOwned, got %v", err)
	}
	if !errors.Is(err, quiz.ErrUnauthorized) {
		t.Fatalf("expected ownership error to wrap ErrUnauthorized, got %v", err)
	}

	answers, err := store.ListAttemptAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("ListAttemptAnswers failed: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected no answers after rejected submit, got %d", len(answers))
	}

	_, err = store.SubmitAttempt(ctx, quiz.Submission{AttemptID: 9999, UserID: owner.ID})
	if !errors.Is(err, quiz.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestSQLiteStoreDeleteQuizCascades(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	learner := mustCreateUser(t, store, "learner", quiz.RoleUser, baseTime)
	item, questions := seedQuiz(t, store, admin.ID, "Basic Math Quiz")
	attempt := mustStartAttempt(t, store, learner.ID, item.ID, baseTime)

	if _, err := store.SubmitAttempt(ctx, quiz.Submission{AttemptID: attempt.ID, UserID: learner.ID, CompletedAt: baseTime}); err != nil {
		t.Fatalf("SubmitAttempt failed: %v", err)
	}

	if err := store.DeleteQuiz(ctx, item.ID); err != nil {
		t.Fatalf("DeleteQuiz failed: %v", err)
	}

	if _, err := store.GetQuestion(ctx, questions[0].ID); !errors.Is(err, quiz.ErrQuestionNotFound) {
		t.Fatalf("expected question to be deleted, got %v", err)
	}
	if _, err := store.GetAttempt(ctx, attempt.ID); !errors.Is(err, quiz.ErrAttemptNotFound) {
		t.Fatalf("expected attempt to be deleted, got %v", err)
	}
	answers, err := store.ListAttemptAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("ListAttemptAnswers failed: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected answers to be deleted, got %d", len(answers))
	}
	if err := store.DeleteQuiz(ctx, item.ID); !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound on second delete, got %v", err)
	}
}

func TestSQLiteStoreListCompletedAttemptsFilters(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	alice := mustCreateUser(t, store, "alice", quiz.RoleUser, baseTime)
	bob := mustCreateUser(t, store, "bob", quiz.RoleUser, baseTime)
	item, _ := seedQuiz(t, store, admin.ID, "Basic Math Quiz")

	for idx, user := range []quiz.User{alice, bob, alice} {
		attempt := mustStartAttempt(t, store, user.ID, item.ID, baseTime)
		if _, err := store.SubmitAttempt(ctx, quiz.Submission{
			AttemptID:   attempt.ID,
			UserID:      user.ID,
			CompletedAt: baseTime.Add(time.Duration(idx) * time.Hour),
		}); err != nil {
			t.Fatalf("SubmitAttempt failed: %v", err)
		}
	}
	mustStartAttempt(t, store, bob.ID, item.ID, baseTime)

	all, err := store.ListCompletedAttempts(ctx, quiz.AttemptFilter{})
	if err != nil {
		t.Fatalf("ListCompletedAttempts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 completed attempts, got %d", len(all))
	}
	if all[0].Username != "alice" || all[0].QuizTitle != "Basic Math Quiz" {
		t.Fatalf("unexpected newest attempt: %+v", all[0])
	}
	if !all[0].CompletedAt.After(all[1].CompletedAt) {
		t.Fatalf("attempts not ordered newest first: %+v", all)
	}

	aliceOnly, err := store.ListCompletedAttempts(ctx, quiz.AttemptFilter{UserID: alice.ID})
	if err != nil {
		t.Fatalf("ListCompletedAttempts failed: %v", err)
	}
	if len(aliceOnly) != 2 {
		t.Fatalf("expected 2 attempts for alice, got %d", len(aliceOnly))
	}

	recent, err := store.ListCompletedAttempts(ctx, quiz.AttemptFilter{Since: baseTime.Add(time.Hour)})
	if err != nil {
		t.Fatalf("ListCompletedAttempts failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 attempts since cutoff, got %d", len(recent))
	}
}

func TestSQLiteStoreListInactiveUsers(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	stale := mustCreateUser(t, store, "stale", quiz.RoleUser, baseTime)
	fresh := mustCreateUser(t, store, "fresh", quiz.RoleUser, baseTime)
	never := mustCreateUser(t, store, "never", quiz.RoleUser, baseTime)
	item, _ := seedQuiz(t, store, admin.ID, "Basic Math Quiz")

	now := baseTime.AddDate(0, 0, 30)
	cutoff := now.AddDate(0, 0, -7)

	submit := func(user quiz.User, at time.Time) {
		attempt := mustStartAttempt(t, store, user.ID, item.ID, at)
		if _, err := store.SubmitAttempt(ctx, quiz.Submission{AttemptID: attempt.ID, UserID: user.ID, CompletedAt: at}); err != nil {
			t.Fatalf("SubmitAttempt failed: %v", err)
		}
	}
	submit(stale, now.AddDate(0, 0, -10))
	submit(stale, now.AddDate(0, 0, -20))
	submit(fresh, now.AddDate(0, 0, -1))
	// An in-progress attempt does not count as activity.
	mustStartAttempt(t, store, never.ID, item.ID, now)

	users, err := store.ListInactiveUsers(ctx, cutoff)
	if err != nil {
		t.Fatalf("ListInactiveUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 inactive users, got %+v", users)
	}
	if users[0].ID != never.ID || users[0].LastAttempt != nil || users[0].TotalAttempts != 0 {
		t.Fatalf("expected never-attempted user first, got %+v", users[0])
	}
	if users[1].ID != stale.ID || users[1].TotalAttempts != 2 {
		t.Fatalf("expected stale user second, got %+v", users[1])
	}
	if users[1].LastAttempt == nil || !users[1].LastAttempt.Equal(now.AddDate(0, 0, -10)) {
		t.Fatalf("unexpected last attempt: %v", users[1].LastAttempt)
	}
}

func TestSQLiteStoreDeleteAbandonedAttempts(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	admin := mustCreateUser(t, store, "admin", quiz.RoleAdmin, baseTime)
	learner := mustCreateUser(t, store, "learner", quiz.RoleUser, baseTime)
	item, _ := seedQuiz(t, store, admin.ID, "Basic Math Quiz")

	old := mustStartAttempt(t, store, learner.ID, item.ID, baseTime.AddDate(0, 0, -40))
	recent := mustStartAttempt(t, store, learner.ID, item.ID, baseTime.AddDate(0, 0, -1))
	oldCompleted := mustStartAttempt(t, store, learner.ID, item.ID, baseTime.AddDate(0, 0, -40))
	if _, err := store.SubmitAttempt(ctx, quiz.Submission{AttemptID: oldCompleted.ID, UserID: learner.ID, CompletedAt: baseTime}); err != nil {
		t.Fatalf("SubmitAttempt failed: %v", err)
	}

	deleted, err := store.DeleteAbandonedAttempts(ctx, baseTime.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DeleteAbandonedAttempts failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if _, err := store.GetAttempt(ctx, old.ID); !errors.Is(err, quiz.ErrAttemptNotFound) {
		t.Fatalf("expected old attempt to be deleted, got %v", err)
	}
	for _, id := range []int64{recent.ID, oldCompleted.ID} {
		if _, err := store.GetAttempt(ctx, id); err != nil {
			t.Fatalf("attempt %d should remain: %v", id, err)
		}
	}
}

func TestSQLiteStoreCountUsersCreatedBetween(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "yesterday", quiz.RoleUser, baseTime.AddDate(0, 0, -1))
	mustCreateUser(t, store, "today1", quiz.RoleUser, baseTime)
	mustCreateUser(t, store, "today2", quiz.RoleUser, baseTime.Add(time.Hour))

	dayStart := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	count, err := store.CountUsersCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("CountUsersCreatedBetween failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}
