package api

import (
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"time"

	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/pkg/httputil"
)

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get history error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	rangeName := r.URL.Query().Get("range")
	if rangeName == "" {
		rangeName = "all"
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "all"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	history, err := s.historyService.Filter(ctx, uid, rangeName, status)
	if err != nil {
		logger.Error("getting history error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch history", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"history": history,
	})
	logger.Info("history provided")
}

func (s *Server) ExportHistory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("export history error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	filename, rows, err := s.historyService.ExportCSV(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEmptyHistory) {
			logger.Error("export history error: nothing to export")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "No history found to export", nil)
			return
		}
		logger.Error("export history error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to export history", nil)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writer := csv.NewWriter(w)
	if err = writer.WriteAll(rows); err != nil {
		logger.Error("export history error: writing csv", slog.String("error", err.Error()))
		return
	}
	logger.Info("history exported", slog.Int("rows", len(rows)-1))
}
