package quiz

import (
	"context"
	"errors"
	"strings"
	"time"

	"quiz-backend/internal/opentdb"
)

const (
	defaultTimeLimit   = 30
	defaultImportCount = 10
	maxImportCount     = 50
)

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type Service struct {
	store   Store
	hasher  PasswordHasher
	fetcher QuestionsFetcher
	now     func() time.Time
}

func NewService(store Store, hasher PasswordHasher, fetcher QuestionsFetcher) *Service {
	return &Service{
		store:   store,
		hasher:  hasher,
		fetcher: fetcher,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Register(ctx context.Context, in Registration) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = RoleUser
	}
	if err := validateStruct(in); err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	user, err := s.store.CreateUser(ctx, User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    s.now(),
	})
	return user, storageError("create user", err)
}

// EnsureAdmin creates the bootstrap admin unless a user with that username
// already exists. The boolean reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, in Registration) (User, bool, error) {
	existing, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, false, storageError("get user", err)
	}

	in.Role = RoleAdmin
	user, err := s.Register(ctx, in)
	if err != nil {
		return User{}, false, err
	}
	return user, true, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, storageError("get user", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID int64) (User, error) {
	user, err := s.store.GetUser(ctx, userID)
	return user, storageError("get user", err)
}

func (s *Service) ListUsers(ctx context.Context, actor User) ([]User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	users, err := s.store.ListUsers(ctx)
	return users, storageError("list users", err)
}

// UpdateUser renames an account or changes its email. A username or email held
// by another account is rejected with ErrDuplicateUser.
func (s *Service) UpdateUser(ctx context.Context, actor User, userID int64, in UserUpdate) (User, error) {
	if !actor.IsAdmin() {
		return User{}, ErrAdminRequired
	}
	if in.Username == nil && in.Email == nil {
		return User{}, invalid("username", "username or email is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return User{}, storageError("get user", err)
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return User{}, invalid("username", "is required")
		}
		in.Username = &username
		user.Username = username
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return User{}, invalid("email", "is required")
		}
		in.Email = &email
		user.Email = email
	}
	if err := validateStruct(in); err != nil {
		return User{}, err
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return User{}, storageError("update user", err)
	}
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, actor User, userID int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if actor.ID == userID {
		return invalid("id", "cannot delete your own account")
	}
	return storageError("delete user", s.store.DeleteUser(ctx, userID))
}

func (s *Service) CreateSubject(ctx context.Context, actor User, in SubjectInput) (Subject, error) {
	if !actor.IsAdmin() {
		return Subject{}, ErrAdminRequired
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return Subject{}, err
	}

	subject, err := s.store.CreateSubject(ctx, Subject{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
		CreatedBy:   actor.ID,
		CreatedAt:   s.now(),
	})
	return subject, storageError("create subject", err)
}

func (s *Service) ListSubjects(ctx context.Context, viewer User) ([]Subject, error) {
	subjects, err := s.store.ListSubjects(ctx, !viewer.IsAdmin())
	return subjects, storageError("list subjects", err)
}

func (s *Service) DeleteSubject(ctx context.Context, actor User, subjectID int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return storageError("delete subject", s.store.DeleteSubject(ctx, subjectID))
}

func (s *Service) CreateChapter(ctx context.Context, actor User, in ChapterInput) (Chapter, error) {
	if !actor.IsAdmin() {
		return Chapter{}, ErrAdminRequired
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return Chapter{}, err
	}
	if _, err := s.store.GetSubject(ctx, in.SubjectID); err != nil {
		return Chapter{}, storageError("get subject", err)
	}

	chapter, err := s.store.CreateChapter(ctx, Chapter{
		SubjectID:   in.SubjectID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
		CreatedBy:   actor.ID,
		CreatedAt:   s.now(),
	})
	return chapter, storageError("create chapter", err)
}

func (s *Service) ListChapters(ctx context.Context, viewer User, subjectID int64) ([]Chapter, error) {
	subject, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, storageError("get subject", err)
	}
	if !subject.IsActive && !viewer.IsAdmin() {
		return nil, ErrSubjectNotFound
	}
	chapters, err := s.store.ListChapters(ctx, subjectID, !viewer.IsAdmin())
	return chapters, storageError("list chapters", err)
}

func (s *Service) DeleteChapter(ctx context.Context, actor User, chapterID int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return storageError("delete chapter", s.store.DeleteChapter(ctx, chapterID))
}

func (s *Service) CreateQuiz(ctx context.Context, actor User, in QuizInput) (Quiz, error) {
	if !actor.IsAdmin() {
		return Quiz{}, ErrAdminRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return Quiz{}, err
	}
	if _, err := s.store.GetChapter(ctx, in.ChapterID); err != nil {
		return Quiz{}, storageError("get chapter", err)
	}

	quiz := Quiz{
		ChapterID:   in.ChapterID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		TimeLimit:   in.TimeLimit,
		IsActive:    true,
		CreatedBy:   actor.ID,
		CreatedAt:   s.now(),
	}
	if quiz.TimeLimit == 0 {
		quiz.TimeLimit = defaultTimeLimit
	}
	if in.IsActive != nil {
		quiz.IsActive = *in.IsActive
	}

	created, err := s.store.CreateQuiz(ctx, quiz)
	return created, storageError("create quiz", err)
}

func (s *Service) UpdateQuiz(ctx context.Context, actor User, quizID int64, in QuizInput) (Quiz, error) {
	if !actor.IsAdmin() {
		return Quiz{}, ErrAdminRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return Quiz{}, err
	}

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, storageError("get quiz", err)
	}
	if in.ChapterID != quiz.ChapterID {
		if _, err := s.store.GetChapter(ctx, in.ChapterID); err != nil {
			return Quiz{}, storageError("get chapter", err)
		}
	}

	quiz.ChapterID = in.ChapterID
	quiz.Title = in.Title
	quiz.Description = strings.TrimSpace(in.Description)
	if in.TimeLimit > 0 {
		quiz.TimeLimit = in.TimeLimit
	}
	if in.IsActive != nil {
		quiz.IsActive = *in.IsActive
	}

	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return Quiz{}, storageError("update quiz", err)
	}
	return quiz, nil
}

// GetQuiz hides inactive quizzes from learners.
func (s *Service) GetQuiz(ctx context.Context, viewer User, quizID int64) (Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, storageError("get quiz", err)
	}
	if !quiz.IsActive && !viewer.IsAdmin() {
		return Quiz{}, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Service) ListQuizzes(ctx context.Context, viewer User, chapterID int64) ([]Quiz, error) {
	if chapterID > 0 {
		chapter, err := s.store.GetChapter(ctx, chapterID)
		if err != nil {
			return nil, storageError("get chapter", err)
		}
		if !chapter.IsActive && !viewer.IsAdmin() {
			return nil, ErrChapterNotFound
		}
	}
	quizzes, err := s.store.ListQuizzes(ctx, QuizFilter{
		ChapterID:  chapterID,
		ActiveOnly: !viewer.IsAdmin(),
	})
	return quizzes, storageError("list quizzes", err)
}

// DeleteQuiz removes the quiz with its questions, attempts and answers.
func (s *Service) DeleteQuiz(ctx context.Context, actor User, quizID int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return storageError("delete quiz", s.store.DeleteQuiz(ctx, quizID))
}

func (s *Service) ListQuestions(ctx context.Context, viewer User, quizID int64) ([]Question, error) {
	if _, err := s.GetQuiz(ctx, viewer, quizID); err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, quizID)
	return questions, storageError("list questions", err)
}

func (s *Service) AddQuestion(ctx context.Context, actor User, quizID int64, in QuestionInput) (Question, error) {
	if !actor.IsAdmin() {
		return Question{}, ErrAdminRequired
	}
	question, err := questionFromInput(in)
	if err != nil {
		return Question{}, err
	}
	if _, err := s.store.GetQuiz(ctx, quizID); err != nil {
		return Question{}, storageError("get quiz", err)
	}

	added, err := s.store.AddQuestions(ctx, quizID, []Question{question})
	if err != nil {
		return Question{}, storageError("add question", err)
	}
	return added[0], nil
}

func (s *Service) UpdateQuestion(ctx context.Context, actor User, questionID int64, in QuestionInput) (Question, error) {
	if !actor.IsAdmin() {
		return Question{}, ErrAdminRequired
	}
	question, err := questionFromInput(in)
	if err != nil {
		return Question{}, err
	}

	existing, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return Question{}, storageError("get question", err)
	}
	question.ID = existing.ID
	question.QuizID = existing.QuizID

	if err := s.store.UpdateQuestion(ctx, question); err != nil {
		return Question{}, storageError("update question", err)
	}
	return question, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, actor User, questionID int64) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return storageError("delete question", s.store.DeleteQuestion(ctx, questionID))
}

// ImportQuestions pulls multiple-choice trivia and appends it to a quiz.
func (s *Service) ImportQuestions(ctx context.Context, actor User, quizID int64, amount int) ([]Question, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if s.fetcher == nil {
		return nil, errors.New("question fetcher is not configured")
	}
	if amount <= 0 {
		amount = defaultImportCount
	}
	if amount > maxImportCount {
		return nil, invalid("amount", "must be at most 50")
	}
	if _, err := s.store.GetQuiz(ctx, quizID); err != nil {
		return nil, storageError("get quiz", err)
	}

	raw, err := s.fetcher(ctx, amount)
	if err != nil {
		return nil, err
	}
	questions := BuildQuestions(raw)
	if len(questions) == 0 {
		return []Question{}, nil
	}

	added, err := s.store.AddQuestions(ctx, quizID, questions)
	return added, storageError("add questions", err)
}

func questionFromInput(in QuestionInput) (Question, error) {
	in.Prompt = strings.TrimSpace(in.Prompt)
	in.CorrectAnswer = strings.ToUpper(strings.TrimSpace(in.CorrectAnswer))
	if err := validateStruct(in); err != nil {
		return Question{}, err
	}
	if in.Points == 0 {
		in.Points = DefaultPoints
	}

	return Question{
		PublicQuestion: PublicQuestion{
			Prompt: in.Prompt,
			Options: makeOptions(
				strings.TrimSpace(in.OptionA),
				strings.TrimSpace(in.OptionB),
				strings.TrimSpace(in.OptionC),
				strings.TrimSpace(in.OptionD),
			),
			Points: in.Points,
		},
		CorrectAnswer: in.CorrectAnswer,
	}, nil
}
