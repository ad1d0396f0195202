package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/meditrack/server/internal/error_values"
	"github.com/meditrack/server/internal/repository"
	"github.com/meditrack/server/pkg/clock"
	"github.com/meditrack/server/pkg/entity"
)

const exportedAtLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"Medicine Name", "Dosage", "Scheduled Time", "Actual Time", "Status", "Notes", "Created At"}

type HistoryService struct {
	repo repository.HistoryRepositoryI
	clk  clock.Clock
}

func NewHistoryService(historyRepo repository.HistoryRepositoryI, clk clock.Clock) *HistoryService {
	if historyRepo == nil {
		log.Fatal("provided nil historyRepo")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &HistoryService{
		repo: historyRepo,
		clk:  clk,
	}
}

func (hs *HistoryService) Filter(ctx context.Context, uid uuid.UUID, rangeName, status string) ([]*entity.HistoryRecord, error) {
	if status == "all" {
		status = ""
	}
	records, err := hs.repo.Filter(ctx, uid, status, hs.rangeCutoff(rangeName))
	if err != nil {
		return nil, errors.New("history repository error: " + err.Error())
	}
	return records, nil
}

func (hs *HistoryService) ExportCSV(ctx context.Context, uid uuid.UUID) (string, [][]string, error) {
	records, err := hs.repo.Filter(ctx, uid, "", nil)
	if err != nil {
		return "", nil, errors.New("history repository error: " + err.Error())
	}
	if len(records) == 0 {
		return "", nil, errorvalues.ErrEmptyHistory
	}
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, csvHeader)
	for _, rec := range records {
		actualTime := ""
		if rec.ActualTime != nil {
			actualTime = *rec.ActualTime
		}
		rows = append(rows, []string{
			rec.MedicineName,
			rec.Dosage,
			rec.ScheduledTime,
			actualTime,
			rec.Status,
			rec.Notes,
			rec.CreatedAt.Format(exportedAtLayout),
		})
	}
	filename := "meditrack-history-" + hs.clk.Now().Format("2006-01-02") + ".csv"
	return filename, rows, nil
}

// rangeCutoff maps a named range to a created_at lower bound. Unknown names
// behave as "all", matching the permissive web filters.
func (hs *HistoryService) rangeCutoff(rangeName string) *time.Time {
	now := hs.clk.Now()
	var cutoff time.Time
	switch rangeName {
	case "today":
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		cutoff = now.AddDate(0, 0, -7)
	case "month":
		cutoff = now.AddDate(0, 0, -30)
	default:
		return nil
	}
	return &cutoff
}
