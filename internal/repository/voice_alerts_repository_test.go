package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/repository"
	"github.com/meditrack/server/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func testVoiceAlert() *entity.VoiceAlert {
	return &entity.VoiceAlert{
		UserID:       userID,
		FileName:     "a1b2c3.webm",
		OriginalName: "morning-reminder.webm",
		MimeType:     "audio/webm",
		SizeBytes:    20480,
	}
}

func TestCreateVoiceAlert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewVoiceAlertsRepoWithConn(mock)
	query := regexp.QuoteMeta(`INSERT INTO voice_alerts (user_id, file_name, original_name, mime_type, size_bytes)`)
	ctx := context.Background()
	t.Run("successfully created", func(t *testing.T) {
		alert := testVoiceAlert()
		mock.ExpectQuery(query).
			WithArgs(alert.UserID, alert.FileName, alert.OriginalName, alert.MimeType, alert.SizeBytes).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).
				AddRow(int64(7), time.Now()))
		id, err := repo.Create(ctx, alert)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, int64(7), alert.ID)
	})
	t.Run("unknown user", func(t *testing.T) {
		alert := testVoiceAlert()
		mock.ExpectQuery(query).
			WithArgs(alert.UserID, alert.FileName, alert.OriginalName, alert.MimeType, alert.SizeBytes).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, alert)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		alert := testVoiceAlert()
		mock.ExpectQuery(query).
			WithArgs(alert.UserID, alert.FileName, alert.OriginalName, alert.MimeType, alert.SizeBytes).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, alert)
		assert.Error(t, err)
	})
}

func TestGetVoiceAlertsByUserID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewVoiceAlertsRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT id, user_id, file_name, original_name, mime_type, size_bytes, created_at
		FROM voice_alerts WHERE user_id = $1 ORDER BY id DESC;`)
	ctx := context.Background()
	t.Run("returns newest first", func(t *testing.T) {
		alert := testVoiceAlert()
		rows := pgxmock.NewRows([]string{"id", "user_id", "file_name", "original_name", "mime_type", "size_bytes", "created_at"}).
			AddRow(int64(2), alert.UserID, alert.FileName, alert.OriginalName, alert.MimeType, alert.SizeBytes, time.Now()).
			AddRow(int64(1), alert.UserID, "old.webm", "old.webm", alert.MimeType, alert.SizeBytes, time.Now())
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(rows)
		result, err := repo.GetByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(result))
		assert.Equal(t, int64(2), result[0].ID)
	})
	t.Run("empty result", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "file_name", "original_name", "mime_type", "size_bytes", "created_at"}))
		result, err := repo.GetByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(result))
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetByUserID(ctx, userID)
		assert.Error(t, err)
	})
}
