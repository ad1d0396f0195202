package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/repository"
	"github.com/meditrack/server/pkg/clock"
	"github.com/meditrack/server/pkg/entity"
)

// actualTimeLayout matches the day/month/year 24-hour convention history
// records have always used.
const actualTimeLayout = "02/01/2006, 15:04"

var doseCountPattern = regexp.MustCompile(`\d+`)

type MedicinesService struct {
	repo repository.MedicinesRepositoryI
	clk  clock.Clock
}

func NewMedicinesService(medsRepo repository.MedicinesRepositoryI, clk clock.Clock) *MedicinesService {
	if medsRepo == nil {
		log.Fatal("provided nil repo to medicines service")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &MedicinesService{
		repo: medsRepo,
		clk:  clk,
	}
}

func (ms *MedicinesService) List(ctx context.Context, uid uuid.UUID) ([]*entity.Medicine, error) {
	meds, err := ms.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("medicines repository error: " + err.Error())
	}
	return meds, nil
}

func (ms *MedicinesService) Get(ctx context.Context, medicineID int64, uid uuid.UUID) (*entity.Medicine, error) {
	return ms.getOwned(ctx, medicineID, uid)
}

func (ms *MedicinesService) Create(ctx context.Context, uid uuid.UUID, req *CreateMedicineRequest) ([]int64, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = entity.FrequencyOnce
	}
	voiceAlertType := req.VoiceAlertType
	if voiceAlertType == "" {
		voiceAlertType = entity.VoiceAlertDefault
	}
	// A missing extra time silently degrades to fewer rows rather than
	// failing the request
	times := []string{req.Time1}
	if frequency == entity.FrequencyTwice && req.Time2 != "" {
		times = append(times, req.Time2)
	} else if frequency == entity.FrequencyThrice && req.Time2 != "" && req.Time3 != "" {
		times = append(times, req.Time2, req.Time3)
	}
	groupID := uuid.New()
	meds := make([]*entity.Medicine, 0, len(times))
	for i, t := range times {
		name := req.Name
		if i > 0 {
			name = fmt.Sprintf("%s (Time %d)", req.Name, i+1)
		}
		meds = append(meds, &entity.Medicine{
			UserID:         uid,
			GroupID:        groupID,
			Name:           name,
			Dosage:         req.Dosage,
			Time:           t,
			Frequency:      frequency,
			Stock:          req.Stock,
			RefillReminder: req.RefillReminder,
			VoiceAlertType: voiceAlertType,
			Status:         entity.StatusPending,
		})
	}
	ids, err := ms.repo.CreateBatch(ctx, meds)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("medicines repository error: " + err.Error())
	}
	return ids, nil
}

func (ms *MedicinesService) Update(ctx context.Context, medicineID int64, uid uuid.UUID, req *UpdateMedicineRequest) (*entity.Medicine, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	med, err := ms.getOwned(ctx, medicineID, uid)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		med.Name = *req.Name
	}
	if req.Dosage != nil {
		med.Dosage = *req.Dosage
	}
	if req.Time != nil {
		med.Time = *req.Time
	}
	if req.Stock != nil {
		med.Stock = *req.Stock
	}
	if req.RefillReminder != nil {
		med.RefillReminder = *req.RefillReminder
	}
	err = ms.repo.Update(ctx, med)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicineNotFound) {
			return nil, err
		}
		return nil, errors.New("medicines repository error: " + err.Error())
	}
	return med, nil
}

func (ms *MedicinesService) MarkTaken(ctx context.Context, medicineID int64, uid uuid.UUID, notes string) (int, error) {
	med, err := ms.getOwned(ctx, medicineID, uid)
	if err != nil {
		return 0, err
	}
	now := ms.clk.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	newStock, err := ms.repo.MarkTaken(ctx, repository.TakenParams{
		Medicine:   med,
		DoseCount:  parseDoseCount(med.Dosage),
		ActualTime: now.Format(actualTimeLayout),
		Notes:      notes,
		DayStart:   dayStart,
		DayEnd:     dayStart.Add(24 * time.Hour),
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrAlreadyMarked), errors.Is(err, errorvalues.ErrMedicineNotFound):
			return 0, err
		}
		return 0, errors.New("medicines repository error: " + err.Error())
	}
	if med.RefillReminder > 0 && newStock <= med.RefillReminder {
		slog.Warn("low stock alert",
			slog.String("medicine", med.Name),
			slog.Int("doses_left", newStock),
		)
	}
	return newStock, nil
}

func (ms *MedicinesService) Reschedule(ctx context.Context, medicineID int64, uid uuid.UUID, remindInMinutes int) error {
	med, err := ms.getOwned(ctx, medicineID, uid)
	if err != nil {
		return err
	}
	dueAt := ms.clk.Now().Add(time.Duration(remindInMinutes) * time.Minute)
	err = ms.repo.Reschedule(ctx, med.ID, dueAt, &entity.HistoryRecord{
		UserID:        uid,
		MedicineID:    med.ID,
		MedicineName:  med.Name,
		Dosage:        med.Dosage,
		ScheduledTime: med.Time,
		ActualTime:    nil,
		Status:        entity.HistoryRescheduled,
		Notes:         fmt.Sprintf("Rescheduled for %d minutes later", remindInMinutes),
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicineNotFound) {
			return err
		}
		return errors.New("medicines repository error: " + err.Error())
	}
	return nil
}

func (ms *MedicinesService) Delete(ctx context.Context, medicineID int64, uid uuid.UUID) error {
	med, err := ms.getOwned(ctx, medicineID, uid)
	if err != nil {
		return err
	}
	_, err = ms.repo.DeleteByGroupID(ctx, med.GroupID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicineNotFound) {
			return err
		}
		return errors.New("medicines repository error: " + err.Error())
	}
	return nil
}

func (ms *MedicinesService) DueReminders(ctx context.Context, uid uuid.UUID) ([]*entity.Medicine, error) {
	meds, err := ms.repo.GetDue(ctx, uid, ms.clk.Now())
	if err != nil {
		return nil, errors.New("medicines repository error: " + err.Error())
	}
	return meds, nil
}

func (ms *MedicinesService) AcknowledgeReminder(ctx context.Context, medicineID int64, uid uuid.UUID) error {
	med, err := ms.getOwned(ctx, medicineID, uid)
	if err != nil {
		return err
	}
	now := ms.clk.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = ms.repo.Acknowledge(ctx, med.ID, day)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicineNotFound) {
			return err
		}
		return errors.New("medicines repository error: " + err.Error())
	}
	return nil
}

func (ms *MedicinesService) getOwned(ctx context.Context, medicineID int64, uid uuid.UUID) (*entity.Medicine, error) {
	med, err := ms.repo.GetByID(ctx, medicineID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrMedicineNotFound) {
			return nil, err
		}
		return nil, errors.New("medicines repository error: " + err.Error())
	}
	if med.UserID != uid {
		return nil, errorvalues.ErrWrongOwner
	}
	return med, nil
}

// parseDoseCount treats the first integer embedded in the free-text dosage
// as the per-dose consumption count, defaulting to 1. "2 tablets" drains 2,
// but so would "500mg" drain 500; the ambiguity is inherited behavior.
func parseDoseCount(dosage string) int {
	match := doseCountPattern.FindString(dosage)
	if match == "" {
		return 1
	}
	count, err := strconv.Atoi(match)
	if err != nil || count < 1 {
		return 1
	}
	return count
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			joined := errorvalues.ErrValidation
			for _, fieldErr := range validationErrors {
				joined = errors.Join(joined, fieldErr)
			}
			return joined
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}
