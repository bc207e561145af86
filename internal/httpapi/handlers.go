package httpapi

import (
	"net/http"

	"quiz-backend/internal/quiz"
)

func currentUser(r *http.Request) quiz.User {
	user, _ := userFromContext(r.Context())
	return user
}

func (a *API) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var request quiz.Registration
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	// Self-registration always creates a learner.
	request.Role = quiz.RoleUser

	user, err := a.service.Register(r.Context(), request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}
	if request.Username == "" || request.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	user, err := a.service.Authenticate(r.Context(), request.Username, request.Password)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	token, expiresAt, err := a.tokens.Issue(user)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	})
}

func (a *API) HandleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (a *API) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.service.ListUsers(r.Context(), currentUser(r))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) HandleAddUser(w http.ResponseWriter, r *http.Request) {
	var request quiz.Registration
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := a.service.Register(r.Context(), request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathID(r, "user_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var request quiz.UserUpdate
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := a.service.UpdateUser(r.Context(), currentUser(r), userID, request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathID(r, "user_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := a.service.DeleteUser(r.Context(), currentUser(r), userID); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}

func (a *API) HandleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := a.service.ListSubjects(r.Context(), currentUser(r))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (a *API) HandleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var request quiz.SubjectInput
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	subject, err := a.service.CreateSubject(r.Context(), currentUser(r), request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (a *API) HandleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := parsePathID(r, "subject_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := a.service.DeleteSubject(r.Context(), currentUser(r), subjectID); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "subject deleted"})
}

func (a *API) HandleListChapters(w http.ResponseWriter, r *http.Request) {
	subjectID, err := parsePathID(r, "subject_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	chapters, err := a.service.ListChapters(r.Context(), currentUser(r), subjectID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}

func (a *API) HandleCreateChapter(w http.ResponseWriter, r *http.Request) {
	var request quiz.ChapterInput
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	chapter, err := a.service.CreateChapter(r.Context(), currentUser(r), request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chapter)
}

func (a *API) HandleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	chapterID, err := parsePathID(r, "chapter_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := a.service.DeleteChapter(r.Context(), currentUser(r), chapterID); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "chapter deleted"})
}

func (a *API) HandleChapterQuizzes(w http.ResponseWriter, r *http.Request) {
	chapterID, err := parsePathID(r, "chapter_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	a.listQuizzes(w, r, chapterID)
}

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	chapterID, err := parseIntParam(r, "chapter_id", 0)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	a.listQuizzes(w, r, int64(chapterID))
}

func (a *API) listQuizzes(w http.ResponseWriter, r *http.Request, chapterID int64) {
	quizzes, err := a.service.ListQuizzes(r.Context(), currentUser(r), chapterID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var request quiz.QuizInput
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	created, err := a.service.CreateQuiz(r.Context(), currentUser(r), request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	found, err := a.service.GetQuiz(r.Context(), currentUser(r), quizID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (a *API) HandleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var request quiz.QuizInput
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	updated, err := a.service.UpdateQuiz(r.Context(), currentUser(r), quizID, request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) HandleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := a.service.DeleteQuiz(r.Context(), currentUser(r), quizID); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "quiz deleted"})
}

// HandleQuizQuestions never exposes correct answers to learners. Admins can
// preview the learner view with ?hide_answers=true.
func (a *API) HandleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	viewer := currentUser(r)
	questions, err := a.service.ListQuestions(r.Context(), viewer, quizID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	if !viewer.IsAdmin() || parseBoolParam(r, "hide_answers") {
		writeJSON(w, http.StatusOK, quiz.ToPublicQuestions(questions))
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (a *API) HandleAddQuestion(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var request quiz.QuestionInput
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	question, err := a.service.AddQuestion(r.Context(), currentUser(r), quizID, request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (a *API) HandleImportQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	amount, err := parseIntParam(r, "amount", 0)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	imported, err := a.service.ImportQuestions(r.Context(), currentUser(r), quizID, amount)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, imported)
}

func (a *API) HandleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := parsePathID(r, "question_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var request quiz.QuestionInput
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	question, err := a.service.UpdateQuestion(r.Context(), currentUser(r), questionID, request)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (a *API) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := parsePathID(r, "question_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := a.service.DeleteQuestion(r.Context(), currentUser(r), questionID); err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "question deleted"})
}
