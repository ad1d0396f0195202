package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/meditrack/server/internal/repository"
	"github.com/meditrack/server/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func historyRows(records ...*entity.HistoryRecord) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "user_id", "medicine_id", "medicine_name", "dosage",
		"scheduled_time", "actual_time", "status", "notes", "created_at"})
	for _, rec := range records {
		rows.AddRow(rec.ID, rec.UserID, rec.MedicineID, rec.MedicineName, rec.Dosage,
			rec.ScheduledTime, rec.ActualTime, rec.Status, rec.Notes, rec.CreatedAt)
	}
	return rows
}

func testHistoryRecord(id int64, status string) *entity.HistoryRecord {
	actual := "31/08/2026, 09:15"
	rec := &entity.HistoryRecord{
		ID:            id,
		UserID:        userID,
		MedicineID:    1,
		MedicineName:  "Aspirin",
		Dosage:        "2 tablets",
		ScheduledTime: "08:00",
		ActualTime:    &actual,
		Status:        status,
		Notes:         "note",
		CreatedAt:     time.Now(),
	}
	if status == entity.HistoryRescheduled {
		rec.ActualTime = nil
	}
	return rec
}

func TestFilterHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHistoryRepoWithConn(mock)
	taken := testHistoryRecord(2, entity.HistoryTaken)
	rescheduled := testHistoryRecord(1, entity.HistoryRescheduled)
	ctx := context.Background()
	t.Run("no filters", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes, created_at
		FROM history WHERE user_id = $1 ORDER BY created_at DESC;`)
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(historyRows(taken, rescheduled))
		result, err := repo.Filter(ctx, userID, "", nil)
		assert.NoError(t, err)
		assert.Equal(t, 2, len(result))
		assert.Equal(t, *taken, *result[0])
		assert.Equal(t, *rescheduled, *result[1])
	})
	t.Run("status filter", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes, created_at
		FROM history WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC;`)
		mock.ExpectQuery(query).
			WithArgs(userID, entity.HistoryTaken).
			WillReturnRows(historyRows(taken))
		result, err := repo.Filter(ctx, userID, entity.HistoryTaken, nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(result))
		assert.Equal(t, entity.HistoryTaken, result[0].Status)
	})
	t.Run("since filter", func(t *testing.T) {
		since := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		query := regexp.QuoteMeta(`SELECT id, user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes, created_at
		FROM history WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at DESC;`)
		mock.ExpectQuery(query).
			WithArgs(userID, since).
			WillReturnRows(historyRows(taken))
		result, err := repo.Filter(ctx, userID, "", &since)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(result))
	})
	t.Run("status and since combined", func(t *testing.T) {
		since := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
		query := regexp.QuoteMeta(`SELECT id, user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes, created_at
		FROM history WHERE user_id = $1 AND status = $2 AND created_at >= $3 ORDER BY created_at DESC;`)
		mock.ExpectQuery(query).
			WithArgs(userID, entity.HistoryRescheduled, since).
			WillReturnRows(historyRows(rescheduled))
		result, err := repo.Filter(ctx, userID, entity.HistoryRescheduled, &since)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(result))
		assert.Nil(t, result[0].ActualTime)
	})
	t.Run("db error", func(t *testing.T) {
		query := regexp.QuoteMeta(`SELECT id, user_id, medicine_id, medicine_name, dosage, scheduled_time, actual_time, status, notes, created_at
		FROM history WHERE user_id = $1 ORDER BY created_at DESC;`)
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(errors.New("db error"))
		_, err := repo.Filter(ctx, userID, "", nil)
		assert.Error(t, err)
	})
}
