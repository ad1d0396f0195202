package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meditrack/server/pkg/cleanup"
	"github.com/meditrack/server/pkg/entity"
)

type HistoryRepository struct {
	conn PgConnection
}

func NewHistoryRepo(cfg DBConfig) *HistoryRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for historyRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for historyRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing historyRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HistoryRepository{
		conn: pool,
	}
}

func NewHistoryRepoWithConn(conn PgConnection) *HistoryRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for historyRepo: " + err.Error())
	}
	return &HistoryRepository{
		conn: conn,
	}
}

// Filter builds the predicate dynamically the way the web filters combine:
// exact status match when status is non-empty, created_at lower bound when
// since is non-nil. Always newest first.
func (hr *HistoryRepository) Filter(ctx context.Context, uid uuid.UUID, status string, since *time.Time) ([]*entity.HistoryRecord, error) {
	query := `SELECT id, user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes, created_at
		FROM history WHERE user_id = $1`
	args := []any{uid}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	if since != nil {
		args = append(args, *since)
		if status != "" {
			query += ` AND created_at >= $3`
		} else {
			query += ` AND created_at >= $2`
		}
	}
	query += ` ORDER BY created_at DESC;`
	rows, err := hr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("filtering history error: " + err.Error())
	}
	defer rows.Close()
	records := make([]*entity.HistoryRecord, 0)
	for rows.Next() {
		rec := entity.HistoryRecord{}
		err = rows.Scan(&rec.ID, &rec.UserID, &rec.MedicineID, &rec.MedicineName, &rec.Dosage,
			&rec.ScheduledTime, &rec.ActualTime, &rec.Status, &rec.Notes, &rec.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling history record error: " + err.Error())
		}
		records = append(records, &rec)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning history: " + rows.Err().Error())
	}
	return records, nil
}
