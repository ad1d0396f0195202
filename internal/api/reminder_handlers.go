package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/pkg/httputil"
)

func (s *Server) GetReminders(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get reminders error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	reminders, err := s.medicineService.DueReminders(ctx, uid)
	if err != nil {
		logger.Error("getting due reminders error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch reminders", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"reminders": reminders,
	})
}

func (s *Server) ClearReminder(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("clear reminder error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("clear reminder error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medicine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.medicineService.AcknowledgeReminder(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicineNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("clear reminder error: unexist medicine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "Medicine not found", nil)
		default:
			logger.Error("clear reminder error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to clear reminder", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reminder cleared",
	})
	logger.Info("reminder cleared")
}
