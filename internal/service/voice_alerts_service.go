package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/repository"
	"github.com/meditrack/server/pkg/entity"
)

// VoiceAlertsService keeps the metadata of recorded and uploaded alert audio.
// The files themselves live wherever the upload frontend put them.
type VoiceAlertsService struct {
	repo repository.VoiceAlertsRepositoryI
}

func NewVoiceAlertsService(alertsRepo repository.VoiceAlertsRepositoryI) *VoiceAlertsService {
	if alertsRepo == nil {
		log.Fatal("provided nil voiceAlertsRepo")
	}
	return &VoiceAlertsService{
		repo: alertsRepo,
	}
}

func (vs *VoiceAlertsService) Create(ctx context.Context, uid uuid.UUID, req *CreateVoiceAlertRequest) (*entity.VoiceAlert, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	alert := entity.VoiceAlert{
		UserID:       uid,
		FileName:     req.FileName,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
	}
	_, err := vs.repo.Create(ctx, &alert)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("voice alerts repository error: " + err.Error())
	}
	return &alert, nil
}

func (vs *VoiceAlertsService) List(ctx context.Context, uid uuid.UUID) ([]*entity.VoiceAlert, error) {
	alerts, err := vs.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("voice alerts repository error: " + err.Error())
	}
	return alerts, nil
}
