package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"quiz-backend/internal/jobs"
	"quiz-backend/internal/quiz"
	"quiz-backend/internal/report"
)

func (a *API) HandleReports(w http.ResponseWriter, r *http.Request) {
	reports, err := a.reports.Reports(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Manual job triggers run the same Runner methods as the scheduler, under
// their own run id.

func (a *API) HandleTestReminders(w http.ResponseWriter, r *http.Request) {
	var sent int
	err := jobs.Track(r.Context(), a.log, "manual-"+jobs.JobUserReminders, func(ctx context.Context) error {
		var err error
		sent, err = a.runner.SendUserReminders(ctx)
		return err
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobCountResponse{
		Message: fmt.Sprintf("Successfully sent %d reminder emails", sent),
		Count:   sent,
	})
}

func (a *API) HandleTestAdminReport(w http.ResponseWriter, r *http.Request) {
	var sent int
	err := jobs.Track(r.Context(), a.log, "manual-"+jobs.JobAdminReport, func(ctx context.Context) error {
		var err error
		sent, err = a.runner.SendAdminReport(ctx)
		return err
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobCountResponse{
		Message: fmt.Sprintf("Successfully sent %d admin report emails", sent),
		Count:   sent,
	})
}

func (a *API) HandleTestCleanup(w http.ResponseWriter, r *http.Request) {
	var ok bool
	_ = jobs.Track(r.Context(), a.log, "manual-"+jobs.JobCleanup, func(ctx context.Context) error {
		ok = a.runner.Cleanup(ctx)
		return nil
	})

	message := "Weekly cleanup completed successfully"
	if !ok {
		message = "Weekly cleanup failed"
	}
	writeJSON(w, http.StatusOK, jobCleanupResponse{Message: message, Success: ok})
}

func (a *API) HandleInactiveUsers(w http.ResponseWriter, r *http.Request) {
	var users []quiz.InactiveUser
	err := jobs.Track(r.Context(), a.log, "manual-inactive-users", func(ctx context.Context) error {
		var err error
		users, err = a.runner.InactiveUsers(ctx)
		return err
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []quiz.InactiveUser{}
	}
	writeJSON(w, http.StatusOK, inactiveUsersResponse{
		Message: fmt.Sprintf("Found %d inactive users", len(users)),
		Users:   users,
	})
}

func (a *API) HandleDailyStats(w http.ResponseWriter, r *http.Request) {
	var stats report.DailyStats
	err := jobs.Track(r.Context(), a.log, "manual-daily-stats", func(ctx context.Context) error {
		var err error
		stats, err = a.runner.DailyStats(ctx)
		return err
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyStatsResponse{
		Message: "Daily statistics retrieved successfully",
		Stats:   stats,
	})
}
