package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/service"
	"github.com/meditrack/server/pkg/httputil"
)

type AddVoiceAlertRequest struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes"`
}

func (s *Server) AddVoiceAlert(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add voice alert error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	var req AddVoiceAlertRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add voice alert error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	alert, err := s.voiceService.Create(ctx, uid, &service.CreateVoiceAlertRequest{
		FileName:     req.FileName,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("add voice alert error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "Only audio files up to 10MB are allowed", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("add voice alert error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "User not found", nil)
		default:
			logger.Error("add voice alert error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to save voice alert", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"success": true,
		"alert":   alert,
	})
	logger.Info("voice alert saved")
}

func (s *Server) GetVoiceAlerts(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get voice alerts error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	alerts, err := s.voiceService.List(ctx, uid)
	if err != nil {
		logger.Error("getting voice alerts error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch voice alerts", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"alerts":  alerts,
	})
	logger.Info("voice alerts provided")
}
