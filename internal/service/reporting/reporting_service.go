package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	repo "github.com/mamadbah2/herdbook/internal/repository/sheets"
)

const (
	dateLayout = "2006-01-02"
	// ReportsRange is the sheet range daily rows are appended to.
	ReportsRange = "Reports!A:H"
	datesRange   = "Reports!A:A"
)

// SnapshotSource aggregates herd figures for a time window.
type SnapshotSource interface {
	Snapshot(ctx context.Context, from, to time.Time) (models.HerdSnapshot, error)
}

// Archive stores published reports.
type Archive interface {
	SaveHerdReport(ctx context.Context, report models.HerdReport) error
}

// Service builds daily herd reports and publishes them to the configured sinks.
type Service struct {
	source  SnapshotSource
	archive Archive
	sheet   repo.Repository
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance. archive and sheet may be
// nil when the sink is not configured.
func NewService(source SnapshotSource, archive Archive, sheet repo.Repository, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:  source,
		archive: archive,
		sheet:   sheet,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}
}

// DailyReport aggregates the calendar day containing day, in the service
// timezone.
func (s *Service) DailyReport(ctx context.Context, day time.Time) (models.HerdReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	snap, err := s.source.Snapshot(ctx, start, end)
	if err != nil {
		return models.HerdReport{}, fmt.Errorf("load herd snapshot for %s: %w", start.Format(dateLayout), err)
	}

	var average float64
	if snap.Products > 0 {
		average = math.Round(snap.TotalMilk/float64(snap.Products)*100) / 100
	}

	return models.HerdReport{
		Date:            start,
		ActiveCattle:    snap.ActiveCattle,
		ProducingCattle: snap.ProducingCattle,
		ActiveLots:      snap.ActiveLots,
		ActiveBreeds:    snap.ActiveBreeds,
		Products:        snap.Products,
		TotalMilk:       snap.TotalMilk,
		AverageMilk:     average,
		CreatedAt:       s.now().UTC(),
	}, nil
}

// Publish archives the report and appends it to the sheet, then returns the
// text summary. A failing sink does not stop the others.
func (s *Service) Publish(ctx context.Context, report models.HerdReport) (string, error) {
	var errs []error

	if s.archive != nil {
		if err := s.archive.SaveHerdReport(ctx, report); err != nil {
			s.logger.Error("failed to archive herd report", zap.Error(err))
			errs = append(errs, fmt.Errorf("archive report: %w", err))
		}
	}

	if s.sheet != nil {
		if err := s.appendRow(ctx, report); err != nil {
			s.logger.Error("failed to export herd report", zap.Error(err))
			errs = append(errs, fmt.Errorf("export report: %w", err))
		}
	}

	return FormatReport(report), errors.Join(errs...)
}

// appendRow writes the report row unless the sheet already has that day. An
// empty sheet gets the header row first.
func (s *Service) appendRow(ctx context.Context, report models.HerdReport) error {
	day := report.Date.Format(dateLayout)

	rows, err := s.sheet.ReadRange(ctx, datesRange)
	if err != nil {
		return fmt.Errorf("load report dates: %w", err)
	}
	if len(rows) == 0 {
		if err := s.sheet.WriteRow(ctx, ReportsRange, models.HerdReportHeader()); err != nil {
			return fmt.Errorf("write report header: %w", err)
		}
	}
	for _, row := range rows {
		if len(row) > 0 && strings.HasPrefix(fmt.Sprint(row[0]), day) {
			s.logger.Debug("report row already exported", zap.String("date", day))
			return nil
		}
	}

	return s.sheet.WriteRow(ctx, ReportsRange, report.Row())
}

// FormatReport renders the report as a short chat message.
func FormatReport(r models.HerdReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Herd report %s\n", r.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Cattle: %d active, %d producing\n", r.ActiveCattle, r.ProducingCattle)
	fmt.Fprintf(&b, "Lots: %d, breeds: %d\n", r.ActiveLots, r.ActiveBreeds)
	if r.Products == 0 {
		b.WriteString("Milk: no products recorded.")
		return b.String()
	}
	fmt.Fprintf(&b, "Milk: %.2f L across %d products (avg %.2f L)", r.TotalMilk, r.Products, r.AverageMilk)
	return b.String()
}
