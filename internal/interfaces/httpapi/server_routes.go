package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/weeks/current", handler.GetCurrentWeek)
	mux.HandleFunc("GET /v1/weeks/{year}/{number}", handler.GetWeek)
	mux.HandleFunc("GET /v1/weeks/{year}/{number}/lockout", handler.GetWeekLockout)
	mux.HandleFunc("GET /v1/weeks/{year}/{number}/standings", handler.GetWeekStandings)

	mux.HandleFunc("POST /v1/weeks/{year}/{number}/submissions", handler.CreateSubmission)
	mux.HandleFunc("GET /v1/weeks/{year}/{number}/submissions/{kind}/{ownerRef}", handler.GetSubmission)
	mux.HandleFunc("PUT /v1/weeks/{year}/{number}/submissions/{kind}/{ownerRef}", handler.UpdateSubmission)
	mux.HandleFunc("DELETE /v1/weeks/{year}/{number}/submissions/{kind}/{ownerRef}", handler.DeleteSubmission)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminToken, h)
	}

	mux.Handle("POST /v1/admin/weeks", admin(handler.BuildWeek))
	mux.Handle("PUT /v1/admin/weeks/{year}/{number}/matches/{matchID}/result", admin(handler.UpdateMatchResult))
	mux.Handle("POST /v1/admin/weeks/{year}/{number}/settle", admin(handler.SettleWeek))
	mux.Handle("POST /v1/admin/weeks/{year}/{number}/sync-results", admin(handler.SyncWeekResults))
	mux.Handle("GET /v1/admin/job-runs", admin(handler.ListJobRuns))
}
