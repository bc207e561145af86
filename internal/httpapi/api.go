package httpapi

import (
	"quiz-backend/internal/auth"
	"quiz-backend/internal/jobs"
	"quiz-backend/internal/logging"
	"quiz-backend/internal/quiz"
	"quiz-backend/internal/report"
)

type API struct {
	service *quiz.Service
	reports *report.Service
	runner  *jobs.Runner
	tokens  *auth.TokenIssuer
	log     *logging.Logger
}

func NewAPI(service *quiz.Service, reports *report.Service, runner *jobs.Runner, tokens *auth.TokenIssuer, log *logging.Logger) *API {
	if log == nil {
		log = logging.Discard()
	}
	return &API{
		service: service,
		reports: reports,
		runner:  runner,
		tokens:  tokens,
		log:     log,
	}
}
