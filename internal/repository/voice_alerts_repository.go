package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/pkg/cleanup"
	"github.com/meditrack/server/pkg/entity"
)

type VoiceAlertsRepository struct {
	conn PgConnection
}

func NewVoiceAlertsRepo(cfg DBConfig) *VoiceAlertsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for voiceAlertsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for voiceAlertsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing voiceAlertsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &VoiceAlertsRepository{
		conn: pool,
	}
}

func NewVoiceAlertsRepoWithConn(conn PgConnection) *VoiceAlertsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for voiceAlertsRepo: " + err.Error())
	}
	return &VoiceAlertsRepository{
		conn: conn,
	}
}

func (vr *VoiceAlertsRepository) Create(ctx context.Context, alert *entity.VoiceAlert) (int64, error) {
	row := vr.conn.QueryRow(ctx, `INSERT INTO voice_alerts (user_id, file_name, original_name, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at;`,
		alert.UserID, alert.FileName, alert.OriginalName, alert.MimeType, alert.SizeBytes,
	)
	if err := row.Scan(&alert.ID, &alert.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return 0, errorvalues.ErrUserNotFound
			}
		}
		return 0, errors.New("creating voice alert error: " + err.Error())
	}
	return alert.ID, nil
}

func (vr *VoiceAlertsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.VoiceAlert, error) {
	rows, err := vr.conn.Query(ctx, `SELECT id, user_id, file_name, original_name, mime_type, size_bytes, created_at
		FROM voice_alerts WHERE user_id = $1 ORDER BY id DESC;`, uid)
	if err != nil {
		return nil, errors.New("getting voice alerts by uid error: " + err.Error())
	}
	defer rows.Close()
	alerts := make([]*entity.VoiceAlert, 0)
	for rows.Next() {
		a := entity.VoiceAlert{}
		err = rows.Scan(&a.ID, &a.UserID, &a.FileName, &a.OriginalName, &a.MimeType, &a.SizeBytes, &a.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling voice alert error: " + err.Error())
		}
		alerts = append(alerts, &a)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning voice alerts: " + rows.Err().Error())
	}
	return alerts, nil
}
