package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/service"
	"github.com/meditrack/server/pkg/entity"
	"github.com/stretchr/testify/assert"
)

var testAlert = entity.VoiceAlert{
	ID:           1,
	UserID:       userID,
	FileName:     "a1b2c3.webm",
	OriginalName: "morning-reminder.webm",
	MimeType:     "audio/webm",
	SizeBytes:    20480,
	CreatedAt:    testInstant,
}

type voiceAlertsRepoMock struct {
	state mockState
}

func (vrmock *voiceAlertsRepoMock) Create(ctx context.Context, alert *entity.VoiceAlert) (int64, error) {
	switch vrmock.state {
	case stateUserNotFoundError:
		return 0, errorvalues.ErrUserNotFound
	case stateDBError:
		return 0, errors.New("db error")
	default:
		alert.ID = testAlert.ID
		alert.CreatedAt = time.Now()
		return alert.ID, nil
	}
}

func (vrmock *voiceAlertsRepoMock) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.VoiceAlert, error) {
	switch vrmock.state {
	case stateDBError:
		return nil, errors.New("db error")
	default:
		alert := testAlert
		return []*entity.VoiceAlert{&alert}, nil
	}
}

func TestCreateVoiceAlertService(t *testing.T) {
	mock := &voiceAlertsRepoMock{state: stateSuccess}
	s := service.NewVoiceAlertsService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		alert, err := s.Create(ctx, userID, &service.CreateVoiceAlertRequest{
			FileName:     testAlert.FileName,
			OriginalName: testAlert.OriginalName,
			MimeType:     testAlert.MimeType,
			SizeBytes:    testAlert.SizeBytes,
		})
		assert.NoError(t, err)
		assert.Equal(t, testAlert.ID, alert.ID)
		assert.Equal(t, userID, alert.UserID)
	})
	t.Run("not an audio mime type", func(t *testing.T) {
		_, err := s.Create(ctx, userID, &service.CreateVoiceAlertRequest{
			FileName:     "a.pdf",
			OriginalName: "a.pdf",
			MimeType:     "application/pdf",
			SizeBytes:    1024,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("over size limit", func(t *testing.T) {
		_, err := s.Create(ctx, userID, &service.CreateVoiceAlertRequest{
			FileName:     testAlert.FileName,
			OriginalName: testAlert.OriginalName,
			MimeType:     testAlert.MimeType,
			SizeBytes:    10485761,
		})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("unknown user", func(t *testing.T) {
		mock.state = stateUserNotFoundError
		_, err := s.Create(ctx, userID, &service.CreateVoiceAlertRequest{
			FileName:     testAlert.FileName,
			OriginalName: testAlert.OriginalName,
			MimeType:     testAlert.MimeType,
			SizeBytes:    testAlert.SizeBytes,
		})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		_, err := s.Create(ctx, userID, &service.CreateVoiceAlertRequest{
			FileName:     testAlert.FileName,
			OriginalName: testAlert.OriginalName,
			MimeType:     testAlert.MimeType,
			SizeBytes:    testAlert.SizeBytes,
		})
		assert.Error(t, err)
	})
}

func TestListVoiceAlertsService(t *testing.T) {
	mock := &voiceAlertsRepoMock{state: stateSuccess}
	s := service.NewVoiceAlertsService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		alerts, err := s.List(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(alerts))
		assert.Equal(t, testAlert, *alerts[0])
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		_, err := s.List(ctx, userID)
		assert.Error(t, err)
	})
}
