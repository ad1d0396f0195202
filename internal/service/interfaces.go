package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/meditrack/server/pkg/entity"
)

type RegisterRequest struct {
	Name            string `validate:"required,min=2,max=100"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,max=72"`
	Age             int    `validate:"omitempty,gte=0,lte=150"`
	MedicalHistory  string `validate:"max=5000"`
	GuardianContact string `validate:"max=100"`
}

type UpdateProfileRequest struct {
	Name            *string `validate:"omitempty,min=2,max=100"`
	Age             *int    `validate:"omitempty,gte=0,lte=150"`
	MedicalHistory  *string `validate:"omitempty,max=5000"`
	GuardianContact *string `validate:"omitempty,max=100"`
	PhotoPath       *string `validate:"omitempty,max=255"`
}

type CreateMedicineRequest struct {
	Name           string `validate:"required,max=255"`
	Dosage         string `validate:"required,max=100"`
	Frequency      string `validate:"omitempty,oneof=once twice thrice"`
	Time1          string `validate:"required,clock_hhmm"`
	Time2          string `validate:"omitempty,clock_hhmm"`
	Time3          string `validate:"omitempty,clock_hhmm"`
	Stock          int    `validate:"gte=0"`
	RefillReminder int    `validate:"gte=0"`
	VoiceAlertType string `validate:"omitempty,oneof=default record upload"`
}

type UpdateMedicineRequest struct {
	Name           *string `validate:"omitempty,max=255"`
	Dosage         *string `validate:"omitempty,max=100"`
	Time           *string `validate:"omitempty,clock_hhmm"`
	Stock          *int    `validate:"omitempty,gte=0"`
	RefillReminder *int    `validate:"omitempty,gte=0"`
}

type CreateVoiceAlertRequest struct {
	FileName     string `validate:"required,max=255"`
	OriginalName string `validate:"required,max=255"`
	MimeType     string `validate:"required,startswith=audio/"`
	SizeBytes    int64  `validate:"gt=0,lte=10485760"`
}

type UserServiceI interface {
	// Validates registration data, hashes the password, creates the row.
	// Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Fetches the profile behind the identity header
	GetProfile(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Applies provided profile fields, returns the updated profile
	UpdateProfile(ctx context.Context, uid uuid.UUID, req *UpdateProfileRequest) (*entity.User, error)
}

type MedicinesServiceI interface {
	// Lists every reminder row of the user, newest id first
	List(ctx context.Context, uid uuid.UUID) ([]*entity.Medicine, error)
	// Fetches one row with an ownership check
	Get(ctx context.Context, medicineID int64, uid uuid.UUID) (*entity.Medicine, error)
	// Expands the request into 1-3 sibling rows, returns created ids
	Create(ctx context.Context, uid uuid.UUID, req *CreateMedicineRequest) ([]int64, error)
	// Applies provided fields to a row; stock changes cover the group
	Update(ctx context.Context, medicineID int64, uid uuid.UUID, req *UpdateMedicineRequest) (*entity.Medicine, error)
	// Marks a dose taken: decrements group stock, logs history. Returns the new stock value
	MarkTaken(ctx context.Context, medicineID int64, uid uuid.UUID, notes string) (int, error)
	// Logs a reschedule and re-arms the reminder remindInMinutes from now
	Reschedule(ctx context.Context, medicineID int64, uid uuid.UUID, remindInMinutes int) error
	// Removes the row and all its time-slot siblings
	Delete(ctx context.Context, medicineID int64, uid uuid.UUID) error
	// Lists reminders due right now
	DueReminders(ctx context.Context, uid uuid.UUID) ([]*entity.Medicine, error)
	// Silences a reminder for the rest of the day
	AcknowledgeReminder(ctx context.Context, medicineID int64, uid uuid.UUID) error
}

type HistoryServiceI interface {
	// Filters the user's history by range (all|today|week|month) and status
	Filter(ctx context.Context, uid uuid.UUID, rangeName, status string) ([]*entity.HistoryRecord, error)
	// Projects the full history into CSV rows with a header line.
	// Returns the download filename for the current date
	ExportCSV(ctx context.Context, uid uuid.UUID) (string, [][]string, error)
}

type VoiceAlertsServiceI interface {
	// Stores metadata of a recorded or uploaded alert
	Create(ctx context.Context, uid uuid.UUID, req *CreateVoiceAlertRequest) (*entity.VoiceAlert, error)
	// Lists the user's alerts, newest first
	List(ctx context.Context, uid uuid.UUID) ([]*entity.VoiceAlert, error)
}
