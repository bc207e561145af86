package httpapi

import (
	"net/http"

	"quiz-backend/internal/report"
)

func (a *API) HandleStartAttempt(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	attempt, started, err := a.service.StartAttempt(r.Context(), currentUser(r), quizID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startAttemptResponse{
		AttemptID:      attempt.ID,
		QuizTitle:      started.Title,
		TimeLimit:      started.TimeLimit,
		TotalQuestions: attempt.TotalQuestions,
	})
}

func (a *API) HandleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID, err := parsePathID(r, "attempt_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var request submitAttemptRequest
	if err := decodeJSON(r, &request); err != nil {
		writeBadRequest(w, err)
		return
	}

	card, err := a.service.SubmitAttempt(r.Context(), currentUser(r), attemptID, request.Answers, request.TimeTaken)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitAttemptResponse{
		Score:       card.Score,
		TotalPoints: card.TotalPoints,
		Percentage:  report.Round2(card.Percentage),
		CompletedAt: card.CompletedAt,
	})
}

func (a *API) HandleGetAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID, err := parsePathID(r, "attempt_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	attempt, answers, err := a.service.GetAttempt(r.Context(), currentUser(r), attemptID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attemptDetailResponse{Attempt: attempt, Answers: answers})
}

func (a *API) HandleUserAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := a.service.ListUserAttempts(r.Context(), currentUser(r))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	response := make([]userAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		response = append(response, userAttemptResponse{
			ID:             attempt.AttemptID,
			QuizTitle:      attempt.QuizTitle,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			TimeTaken:      attempt.TimeTaken,
			StartedAt:      attempt.StartedAt,
			CompletedAt:    attempt.CompletedAt,
			Percentage:     report.Round2(attempt.Percentage()),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleQuizAttempts(w http.ResponseWriter, r *http.Request) {
	quizID, err := parsePathID(r, "quiz_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	attempts, err := a.service.ListQuizAttempts(r.Context(), currentUser(r), quizID)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	response := make([]quizAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		response = append(response, quizAttemptResponse{
			ID:             attempt.AttemptID,
			Username:       attempt.Username,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			TimeTaken:      attempt.TimeTaken,
			CompletedAt:    attempt.CompletedAt,
			Percentage:     report.Round2(attempt.Percentage()),
		})
	}
	writeJSON(w, http.StatusOK, response)
}
