package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
	"github.com/campusops/course-reg-api/pkg/export"
)

type effectiveScheduleReader interface {
	EffectiveSchedule(ctx context.Context, classID string, week int, draft *models.OverlayDraft) ([]models.EffectiveSlot, error)
}

type exportClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// ExportResult carries a rendered timetable document.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a class's effective week schedule to CSV or PDF.
type ExportService struct {
	schedules effectiveScheduleReader
	classes   exportClassReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService(schedules effectiveScheduleReader, classes exportClassReader) *ExportService {
	return &ExportService{
		schedules: schedules,
		classes:   classes,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// ExportWeek renders the persisted effective schedule of (class, week).
// Supported formats: csv, pdf.
func (s *ExportService) ExportWeek(ctx context.Context, classID string, week int, format string) (*ExportResult, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	slots, err := s.schedules.EffectiveSchedule(ctx, classID, week, nil)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Columns: []string{"Day", "Period", "Room", "Mode", "Status"},
		Rows:    make([][]string, 0, len(slots)),
	}
	for _, slot := range slots {
		table.Rows = append(table.Rows, []string{
			models.DayName(slot.Day),
			strconv.Itoa(slot.Period),
			models.RoomLabel(slot.Mode, slot.Room),
			string(slot.Mode),
			string(slot.Status),
		})
	}

	switch strings.ToLower(format) {
	case "csv":
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-week-%d.csv", class.Code, week),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		title := fmt.Sprintf("%s schedule, week %d", class.Code, week)
		data, err := s.pdf.Render(table, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-week-%d.pdf", class.Code, week),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
