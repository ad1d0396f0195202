package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meditrack/server/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Used at registration for duplicate detection
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid, as supplied by the identity header
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's profile fields
	Update(ctx context.Context, user *entity.User) error
}

type MedicinesRepositoryI interface {
	// Inserts every reminder row of one logical medicine, returns their ids
	CreateBatch(ctx context.Context, meds []*entity.Medicine) ([]int64, error)
	// Searches medicine row with given id
	GetByID(ctx context.Context, id int64) (*entity.Medicine, error)
	// Lists every medicine row owned by uid, newest id first. Unbounded
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Medicine, error)
	// Lists sibling rows of one logical medicine
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Medicine, error)
	// Updates editable fields of one row and propagates stock to its group
	Update(ctx context.Context, med *entity.Medicine) error
	// Runs the whole mark-as-taken sequence in one transaction with the
	// sibling group locked: same-day duplicate check, stock decrement and
	// propagation, status flip, history insert. Returns the new stock value
	MarkTaken(ctx context.Context, p TakenParams) (int, error)
	// Sets the explicit re-reminder instant consulted by GetDue and appends
	// the rescheduled history record, both in one transaction
	Reschedule(ctx context.Context, id int64, dueAt time.Time, rec *entity.HistoryRecord) error
	// Lists rows due for a reminder at the given instant
	GetDue(ctx context.Context, uid uuid.UUID, now time.Time) ([]*entity.Medicine, error)
	// Silences a row's reminder for the rest of day
	Acknowledge(ctx context.Context, id int64, day time.Time) error
	// Deletes every sibling row of the group
	DeleteByGroupID(ctx context.Context, groupID uuid.UUID) (int, error)
}

// TakenParams carries everything MarkTaken needs so the repository stays free
// of clock and dosage-parsing concerns.
type TakenParams struct {
	Medicine   *entity.Medicine
	DoseCount  int
	ActualTime string
	Notes      string
	// Calendar day boundaries for the duplicate guard
	DayStart time.Time
	DayEnd   time.Time
}

// HistoryRepositoryI is read-only: records are appended inside the
// mark-taken and reschedule transactions on the medicines repository.
type HistoryRepositoryI interface {
	// Lists records for uid newest first; status filters exactly when
	// non-empty, since bounds created_at from below when non-nil
	Filter(ctx context.Context, uid uuid.UUID, status string, since *time.Time) ([]*entity.HistoryRecord, error)
}

type VoiceAlertsRepositoryI interface {
	// Stores uploaded or recorded alert metadata
	Create(ctx context.Context, alert *entity.VoiceAlert) (int64, error)
	// Lists alerts owned by uid, newest first
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.VoiceAlert, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
