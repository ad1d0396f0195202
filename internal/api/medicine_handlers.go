package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/service"
	"github.com/meditrack/server/pkg/httputil"
)

type AddMedicineRequest struct {
	Name           string `json:"name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	MedicineTime1  string `json:"medicineTime1"`
	MedicineTime2  string `json:"medicineTime2"`
	MedicineTime3  string `json:"medicineTime3"`
	Stock          int    `json:"stock"`
	RefillReminder int    `json:"refill_reminder"`
	VoiceAlertType string `json:"voice_alert_type"`
}

type UpdateMedicineRequest struct {
	Name           *string `json:"name"`
	Dosage         *string `json:"dosage"`
	Time           *string `json:"time"`
	Stock          *int    `json:"stock"`
	RefillReminder *int    `json:"refill_reminder"`
}

type MarkTakenRequest struct {
	Notes string `json:"notes"`
}

type RescheduleRequest struct {
	RemindInMinutes int `json:"remindInMinutes"`
}

func (s *Server) GetMedicines(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get medicines error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	medicines, err := s.medicineService.List(ctx, uid)
	if err != nil {
		logger.Error("getting medicines list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch medicines", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"medicines": medicines,
	})
	logger.Info("medicines provided")
}

func (s *Server) GetMedicine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get medicine error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("get medicine error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medicine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	medicine, err := s.medicineService.Get(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicineNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get medicine error: unexist medicine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "Medicine not found", nil)
		default:
			logger.Error("get medicine error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch medicine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"medicine": medicine,
	})
	logger.Info("medicine provided")
}

func (s *Server) AddMedicine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("add medicine error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	var req AddMedicineRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("add medicine error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	ids, err := s.medicineService.Create(ctx, uid, &service.CreateMedicineRequest{
		Name:           req.Name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Time1:          req.MedicineTime1,
		Time2:          req.MedicineTime2,
		Time3:          req.MedicineTime3,
		Stock:          req.Stock,
		RefillReminder: req.RefillReminder,
		VoiceAlertType: req.VoiceAlertType,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("add medicine error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "Name, dosage, and at least one time are required", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("add medicine error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "User not found", nil)
		default:
			logger.Error("add medicine error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to add medicine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     fmt.Sprintf("Medicine added successfully with %d reminder(s)", len(ids)),
		"medicineIds": ids,
	})
	logger.Info("medicine created", slog.Int("reminders", len(ids)))
}

func (s *Server) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update medicine error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("update medicine error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medicine id in path value", nil)
		return
	}
	var req UpdateMedicineRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update medicine error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	medicine, err := s.medicineService.Update(ctx, id, uid, &service.UpdateMedicineRequest{
		Name:           req.Name,
		Dosage:         req.Dosage,
		Time:           req.Time,
		Stock:          req.Stock,
		RefillReminder: req.RefillReminder,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update medicine error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "Invalid medicine fields", err)
		case errors.Is(err, errorvalues.ErrMedicineNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("update medicine error: unexist medicine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "Medicine not found", nil)
		default:
			logger.Error("update medicine error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update medicine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Medicine updated successfully",
		"medicine": medicine,
	})
	logger.Info("medicine updated")
}

func (s *Server) MarkAsTaken(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("mark as taken error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("mark as taken error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medicine id in path value", nil)
		return
	}
	var req MarkTakenRequest
	defer r.Body.Close()
	// Notes are optional; an empty body is fine
	sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	newStock, err := s.medicineService.MarkTaken(ctx, id, uid, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicineNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("mark as taken error: unexist medicine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "Medicine not found", nil)
		case errors.Is(err, errorvalues.ErrAlreadyMarked):
			logger.Error("mark as taken error: duplicate same-day mark")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "Already marked as taken today", nil)
		default:
			logger.Error("mark as taken error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update medicine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Medicine marked as taken",
		"newStock": newStock,
	})
	logger.Info("medicine marked as taken", slog.Int("new_stock", newStock))
}

func (s *Server) RescheduleMedicine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("reschedule error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("reschedule error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medicine id in path value", nil)
		return
	}
	var req RescheduleRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.RemindInMinutes < 1 {
		logger.Error("reschedule error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "remindInMinutes must be a positive number", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.medicineService.Reschedule(ctx, id, uid, req.RemindInMinutes)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicineNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("reschedule error: unexist medicine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "Medicine not found", nil)
		default:
			logger.Error("reschedule error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to reschedule medicine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Reminder set for %d minutes later", req.RemindInMinutes),
	})
	logger.Info("medicine rescheduled", slog.Int("remind_in_minutes", req.RemindInMinutes))
}

func (s *Server) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("medicine deletion error: no identity")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "User ID is required in headers", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("medicine deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid medicine id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.medicineService.Delete(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMedicineNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("medicine deletion error: unexist medicine")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "Medicine not found", nil)
		default:
			logger.Error("medicine deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete medicine", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Medicine and related reminders deleted successfully",
	})
	logger.Info("medicine deleted")
}
