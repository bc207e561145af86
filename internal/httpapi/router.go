package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"quiz-backend/internal/quiz"
)

const maxErrorLogBytes = 512

func NewRouter(api *API) http.Handler {
	authed := func(h http.HandlerFunc) http.Handler { return api.requireUser(h) }
	admin := func(h http.HandlerFunc) http.Handler { return api.requireUser(api.requireAdmin(h)) }

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", api.HandleRegister)
	mux.HandleFunc("POST /api/login", api.HandleLogin)
	mux.Handle("GET /api/profile", authed(api.HandleProfile))

	mux.Handle("GET /api/subjects", authed(api.HandleListSubjects))
	mux.Handle("POST /api/subjects", admin(api.HandleCreateSubject))
	mux.Handle("DELETE /api/subjects/{subject_id}", admin(api.HandleDeleteSubject))
	mux.Handle("GET /api/subjects/{subject_id}/chapters", authed(api.HandleListChapters))
	mux.Handle("POST /api/chapters", admin(api.HandleCreateChapter))
	mux.Handle("DELETE /api/chapters/{chapter_id}", admin(api.HandleDeleteChapter))
	mux.Handle("GET /api/chapters/{chapter_id}/quizzes", authed(api.HandleChapterQuizzes))

	mux.Handle("GET /api/quizzes", authed(api.HandleListQuizzes))
	mux.Handle("POST /api/quizzes", admin(api.HandleCreateQuiz))
	mux.Handle("GET /api/quizzes/{quiz_id}", authed(api.HandleGetQuiz))
	mux.Handle("PUT /api/quizzes/{quiz_id}", admin(api.HandleUpdateQuiz))
	mux.Handle("DELETE /api/quizzes/{quiz_id}", admin(api.HandleDeleteQuiz))
	mux.Handle("GET /api/quizzes/{quiz_id}/questions", authed(api.HandleQuizQuestions))
	mux.Handle("POST /api/quizzes/{quiz_id}/questions", admin(api.HandleAddQuestion))
	mux.Handle("POST /api/quizzes/{quiz_id}/import", admin(api.HandleImportQuestions))
	mux.Handle("PUT /api/questions/{question_id}", admin(api.HandleUpdateQuestion))
	mux.Handle("DELETE /api/questions/{question_id}", admin(api.HandleDeleteQuestion))

	mux.Handle("POST /api/quizzes/{quiz_id}/start", authed(api.HandleStartAttempt))
	mux.Handle("POST /api/attempts/{attempt_id}/submit", authed(api.HandleSubmitAttempt))
	mux.Handle("GET /api/attempts/{attempt_id}", authed(api.HandleGetAttempt))
	mux.Handle("GET /api/user/attempts", authed(api.HandleUserAttempts))
	mux.Handle("GET /api/quizzes/{quiz_id}/attempts", authed(api.HandleQuizAttempts))

	mux.Handle("GET /api/admin/users", admin(api.HandleListUsers))
	mux.Handle("POST /api/admin/users", admin(api.HandleAddUser))
	mux.Handle("PUT /api/admin/users/{user_id}", admin(api.HandleUpdateUser))
	mux.Handle("DELETE /api/admin/users/{user_id}", admin(api.HandleDeleteUser))
	mux.Handle("GET /api/admin/reports", admin(api.HandleReports))

	mux.Handle("POST /api/admin/jobs/test-reminders", admin(api.HandleTestReminders))
	mux.Handle("POST /api/admin/jobs/test-admin-report", admin(api.HandleTestAdminReport))
	mux.Handle("POST /api/admin/jobs/test-cleanup", admin(api.HandleTestCleanup))
	mux.Handle("GET /api/admin/jobs/inactive-users", admin(api.HandleInactiveUsers))
	mux.Handle("GET /api/admin/jobs/daily-stats", admin(api.HandleDailyStats))

	return api.accessLog(mux)
}

type contextKey struct{}

func userFromContext(ctx context.Context) (quiz.User, bool) {
	user, ok := ctx.Value(contextKey{}).(quiz.User)
	return user, ok
}

// requireUser resolves the bearer token to a current user row, so deleted
// accounts and role changes take effect before the token expires.
func (a *API) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		identity, err := a.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		user, err := a.service.GetUser(r.Context(), identity.UserID)
		if err != nil {
			if !isNotFound(err) {
				a.writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
	})
}

func (a *API) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next(w, r)
	})
}

// statusRecorder captures the status and size of a response and keeps the
// first maxLogBytes of the body for error logging.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if remaining := r.maxLogBytes - r.logBody.Len(); remaining > 0 {
		if len(p) > remaining {
			r.logBody.Write(p[:remaining])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}

	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n
	return n, err
}

func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxErrorLogBytes,
		}
		started := time.Now()
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(started).Round(time.Microsecond)

		if recorder.statusCode < http.StatusBadRequest {
			a.log.Infof("request id=%s %s %s status=%d bytes=%d took=%s",
				requestID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed)
			return
		}

		body := strings.TrimSpace(recorder.logBody.String())
		if recorder.truncated {
			body += "...(truncated)"
		}
		logf := a.log.Warnf
		if recorder.statusCode >= http.StatusInternalServerError {
			logf = a.log.Errorf
		}
		logf("request id=%s %s %s status=%d bytes=%d took=%s body=%s",
			requestID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed, body)
	})
}
