package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Age             int       `json:"age,omitempty"`
	MedicalHistory  string    `json:"medical_history,omitempty"`
	GuardianContact string    `json:"guardian_contact,omitempty"`
	PhotoPath       string    `json:"photo_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Medicine is one reminder row. A logical medicine with several daily times
// expands into sibling rows sharing GroupID; siblings after the first carry
// a " (Time N)" name suffix.
type Medicine struct {
	ID               int64      `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	GroupID          uuid.UUID  `json:"group_id"`
	Name             string     `json:"name"`
	Dosage           string     `json:"dosage"`
	Time             string     `json:"time"`
	Frequency        string     `json:"frequency"`
	Stock            int        `json:"stock"`
	RefillReminder   int        `json:"refill_reminder"`
	VoiceAlertType   string     `json:"voice_alert_type"`
	Status           string     `json:"status"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	LastAcknowledged *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// HistoryRecord is append-only. MedicineID is a soft reference: the medicine
// may be deleted later, the denormalized snapshot fields stay readable.
type HistoryRecord struct {
	ID            int64     `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	MedicineID    int64     `json:"medicine_id"`
	MedicineName  string    `json:"medicine_name"`
	Dosage        string    `json:"dosage"`
	ScheduledTime string    `json:"scheduled_time"`
	ActualTime    *string   `json:"actual_time"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type VoiceAlert struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	FrequencyOnce   = "once"
	FrequencyTwice  = "twice"
	FrequencyThrice = "thrice"

	StatusPending = "pending"
	StatusTaken   = "taken"
	StatusMissed  = "missed"

	HistoryTaken       = "taken"
	HistoryRescheduled = "rescheduled"
	HistoryMissed      = "missed"

	VoiceAlertDefault = "default"
	VoiceAlertRecord  = "record"
	VoiceAlertUpload  = "upload"
)
