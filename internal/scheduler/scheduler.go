package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter builds and publishes the daily herd report.
type Reporter interface {
	DailyReport(ctx context.Context, day time.Time) (models.HerdReport, error)
	Publish(ctx context.Context, report models.HerdReport) (string, error)
}

// Reconciler recounts the cattle of every lot.
type Reconciler interface {
	RecalculateTotals(ctx context.Context) (int, error)
}

// Notifier pushes a text summary to the farm owner.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	cfg        config.ReportingConfig
	reporter   Reporter
	reconciler Reconciler
	notifier   Notifier
	now        func() time.Time
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance running in loc. notifier may
// be nil when WhatsApp delivery is not configured.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, reporter Reporter, reconciler Reconciler, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		cfg:        cfg,
		reporter:   reporter,
		reconciler: reconciler,
		notifier:   notifier,
		now:        func() time.Time { return time.Now().In(loc) },
		logger:     logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.CronSchedule),
		zap.String("reconcile_schedule", s.cfg.ReconcileCronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.ReconcileCronSchedule, s.runReconcile); err != nil {
		return fmt.Errorf("schedule lot reconciliation: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendDailyReport(ctx); err != nil {
		s.logger.Error("daily report job failed", zap.Error(err))
	}
}

// SendDailyReport generates today's report, publishes it and pushes the
// summary through the notifier.
func (s *Scheduler) SendDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily report")

	report, err := s.reporter.DailyReport(ctx, s.now())
	if err != nil {
		return fmt.Errorf("generate daily report: %w", err)
	}

	text, err := s.reporter.Publish(ctx, report)
	if err != nil {
		// Sink failures are already logged; the summary can still go out.
		s.logger.Warn("daily report published partially", zap.Error(err))
	}

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("send daily report: %w", err)
	}
	s.logger.Info("daily report sent successfully")
	return nil
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	lots, err := s.reconciler.RecalculateTotals(ctx)
	if err != nil {
		s.logger.Error("lot reconciliation failed", zap.Error(err))
		return
	}
	s.logger.Info("lot totals reconciled", zap.Int("lots", lots))
}
