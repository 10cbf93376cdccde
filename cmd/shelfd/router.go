package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"shelfstats-backend/services/collections"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(service collections.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	// a full crawl of three verticals with the courtesy delay can run
	// for minutes, the timeout has to accommodate that
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/api/v1/report/{username}", reportHandler(service))

	return r
}

func reportHandler(service collections.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		username := chi.URLParam(req, "username")

		report, err := service.Run(ctx, username, func(category string, page int) {
			slog.InfoContext(ctx, "fetched collection page",
				"username", username, "category", category, "page", page)
		})
		if errors.Is(err, collections.ErrNoCollections) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "report pipeline failed", "username", username, "err", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}
