package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/pkg/cleanup"
	"github.com/meditrack/server/pkg/entity"
)

const medicineColumns = `id, user_id, group_id, name, dosage, time, frequency, stock, refill_reminder, voice_alert_type, status, due_at, last_acknowledged, created_at`

type MedicinesRepository struct {
	conn PgConnection
}

func NewMedicinesRepo(cfg DBConfig) *MedicinesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for medicinesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for medicinesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing medicinesRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &MedicinesRepository{
		conn: pool,
	}
}

func NewMedicinesRepoWithConn(conn PgConnection) *MedicinesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for medicinesRepo: " + err.Error())
	}
	return &MedicinesRepository{
		conn: conn,
	}
}

func (mr *MedicinesRepository) CreateBatch(ctx context.Context, meds []*entity.Medicine) ([]int64, error) {
	tx, err := mr.conn.Begin(ctx)
	if err != nil {
		return nil, errors.New("starting medicines insert tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	ids := make([]int64, 0, len(meds))
	for _, m := range meds {
		row := tx.QueryRow(ctx, `INSERT INTO medicines (user_id, group_id, name, dosage, time, frequency, stock, refill_reminder, voice_alert_type, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id;`,
			m.UserID, m.GroupID, m.Name, m.Dosage, m.Time, m.Frequency,
			m.Stock, m.RefillReminder, m.VoiceAlertType, m.Status,
		)
		if err := row.Scan(&m.ID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				// FK violation
				case "23503":
					return nil, errorvalues.ErrUserNotFound
				}
			}
			return nil, errors.New("creating medicine db error: " + err.Error())
		}
		ids = append(ids, m.ID)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, errors.New("committing medicines insert tx error: " + err.Error())
	}
	return ids, nil
}

func (mr *MedicinesRepository) GetByID(ctx context.Context, id int64) (*entity.Medicine, error) {
	row := mr.conn.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1;`, id)
	med, err := scanMedicine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrMedicineNotFound
		}
		return nil, errors.New("getting medicine by id error: " + err.Error())
	}
	return med, nil
}

func (mr *MedicinesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Medicine, error) {
	rows, err := mr.conn.Query(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE user_id = $1 ORDER BY id DESC;`, uid)
	if err != nil {
		return nil, errors.New("getting medicines by uid error: " + err.Error())
	}
	return collectMedicines(rows)
}

func (mr *MedicinesRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*entity.Medicine, error) {
	rows, err := mr.conn.Query(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE group_id = $1 ORDER BY id ASC;`, groupID)
	if err != nil {
		return nil, errors.New("getting medicines by group error: " + err.Error())
	}
	return collectMedicines(rows)
}

func (mr *MedicinesRepository) Update(ctx context.Context, med *entity.Medicine) error {
	tx, err := mr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting medicine update tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	ct, err := tx.Exec(ctx, `UPDATE medicines SET name = $1, dosage = $2, time = $3, refill_reminder = $4 WHERE id = $5;`,
		med.Name, med.Dosage, med.Time, med.RefillReminder, med.ID,
	)
	if err != nil {
		return errors.New("error updating medicine: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMedicineNotFound
	}
	// Stock is shared by the whole group
	_, err = tx.Exec(ctx, `UPDATE medicines SET stock = $1 WHERE group_id = $2;`, med.Stock, med.GroupID)
	if err != nil {
		return errors.New("error propagating stock to group: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing medicine update tx error: " + err.Error())
	}
	return nil
}

// MarkTaken serializes the duplicate-check, stock decrement, status flip and
// history insert behind row locks on the sibling group, so two concurrent
// calls cannot double-deduct or double-log.
func (mr *MedicinesRepository) MarkTaken(ctx context.Context, p TakenParams) (int, error) {
	tx, err := mr.conn.Begin(ctx)
	if err != nil {
		return 0, errors.New("starting mark-taken tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	// Lock the group before anything else. Concurrent callers queue here, and
	// under READ COMMITTED the statements below run on fresh snapshots, so the
	// duplicate check sees the history row a competing call committed while we
	// waited for the lock.
	rows, err := tx.Query(ctx, `SELECT id, stock FROM medicines WHERE group_id = $1 ORDER BY id ASC FOR UPDATE;`, p.Medicine.GroupID)
	if err != nil {
		return 0, errors.New("locking medicine group error: " + err.Error())
	}
	stock := p.Medicine.Stock
	found := false
	for rows.Next() {
		var id int64
		var s int
		if err = rows.Scan(&id, &s); err != nil {
			rows.Close()
			return 0, errors.New("scanning locked medicine row error: " + err.Error())
		}
		if id == p.Medicine.ID {
			stock = s
			found = true
		}
	}
	if rows.Err() != nil {
		return 0, errors.New("unexpected error after locking group: " + rows.Err().Error())
	}
	rows.Close()
	if !found {
		return 0, errorvalues.ErrMedicineNotFound
	}

	var exists bool
	row := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM history WHERE medicine_id = $1 AND created_at >= $2 AND created_at < $3);`,
		p.Medicine.ID, p.DayStart, p.DayEnd,
	)
	if err = row.Scan(&exists); err != nil {
		return 0, errors.New("inspecting same-day history error: " + err.Error())
	}
	if exists {
		return 0, errorvalues.ErrAlreadyMarked
	}

	newStock := stock
	if stock > 0 {
		newStock = stock - p.DoseCount
		if newStock < 0 {
			newStock = 0
		}
		_, err = tx.Exec(ctx, `UPDATE medicines SET stock = $1 WHERE group_id = $2;`, newStock, p.Medicine.GroupID)
		if err != nil {
			return 0, errors.New("updating group stock error: " + err.Error())
		}
	}

	_, err = tx.Exec(ctx, `UPDATE medicines SET status = $1 WHERE id = $2;`, entity.StatusTaken, p.Medicine.ID)
	if err != nil {
		return 0, errors.New("updating medicine status error: " + err.Error())
	}

	_, err = tx.Exec(ctx, `INSERT INTO history (user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		p.Medicine.UserID, p.Medicine.ID, p.Medicine.Name, p.Medicine.Dosage,
		p.Medicine.Time, p.ActualTime, entity.HistoryTaken, p.Notes,
	)
	if err != nil {
		return 0, errors.New("inserting taken history error: " + err.Error())
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, errors.New("committing mark-taken tx error: " + err.Error())
	}
	return newStock, nil
}

// Reschedule re-arms the row's due_at and logs the rescheduled record in one
// transaction, so a failed history write never leaves the reminder re-armed
// without a trace.
func (mr *MedicinesRepository) Reschedule(ctx context.Context, id int64, dueAt time.Time, rec *entity.HistoryRecord) error {
	tx, err := mr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting reschedule tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	ct, err := tx.Exec(ctx, `UPDATE medicines SET due_at = $1 WHERE id = $2;`, dueAt, id)
	if err != nil {
		return errors.New("error setting due_at: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMedicineNotFound
	}
	_, err = tx.Exec(ctx, `INSERT INTO history (user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		rec.UserID, rec.MedicineID, rec.MedicineName, rec.Dosage,
		rec.ScheduledTime, rec.ActualTime, rec.Status, rec.Notes,
	)
	if err != nil {
		return errors.New("inserting rescheduled history error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing reschedule tx error: " + err.Error())
	}
	return nil
}

// GetDue returns pending rows whose explicit due_at has passed, or whose
// scheduled time-of-day has passed and that were not acknowledged today.
func (mr *MedicinesRepository) GetDue(ctx context.Context, uid uuid.UUID, now time.Time) ([]*entity.Medicine, error) {
	hhmm := now.Format("15:04")
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	rows, err := mr.conn.Query(ctx, `SELECT `+medicineColumns+` FROM medicines
		WHERE user_id = $1 AND status = 'pending'
		AND ((due_at IS NOT NULL AND due_at <= $2)
			OR (due_at IS NULL AND time <= $3 AND (last_acknowledged IS NULL OR last_acknowledged < $4)))
		ORDER BY time ASC;`, uid, now, hhmm, today)
	if err != nil {
		return nil, errors.New("getting due medicines error: " + err.Error())
	}
	return collectMedicines(rows)
}

func (mr *MedicinesRepository) Acknowledge(ctx context.Context, id int64, day time.Time) error {
	ct, err := mr.conn.Exec(ctx, `UPDATE medicines SET last_acknowledged = $1, due_at = NULL WHERE id = $2;`, day, id)
	if err != nil {
		return errors.New("error acknowledging reminder: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMedicineNotFound
	}
	return nil
}

func (mr *MedicinesRepository) DeleteByGroupID(ctx context.Context, groupID uuid.UUID) (int, error) {
	ct, err := mr.conn.Exec(ctx, `DELETE FROM medicines WHERE group_id = $1;`, groupID)
	if err != nil {
		return 0, errors.New("error deleting medicine group: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return 0, errorvalues.ErrMedicineNotFound
	}
	return int(ct.RowsAffected()), nil
}

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(&m.ID, &m.UserID, &m.GroupID, &m.Name, &m.Dosage, &m.Time,
		&m.Frequency, &m.Stock, &m.RefillReminder, &m.VoiceAlertType, &m.Status,
		&m.DueAt, &m.LastAcknowledged, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMedicines(rows pgx.Rows) ([]*entity.Medicine, error) {
	defer rows.Close()
	meds := make([]*entity.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, errors.New("unmarshalling medicine error: " + err.Error())
		}
		meds = append(meds, m)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning medicines: " + rows.Err().Error())
	}
	return meds, nil
}
