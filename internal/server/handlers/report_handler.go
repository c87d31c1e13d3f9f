package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/validation"
)

// ReportGenerator builds the herd report of one day.
type ReportGenerator interface {
	DailyReport(ctx context.Context, day time.Time) (models.HerdReport, error)
}

// ReportHandler serves on-demand herd reports.
type ReportHandler struct {
	reports ReportGenerator
	now     func() time.Time
	logger  *zap.Logger
}

// NewReportHandler serves reports whose default day is today in loc.
func NewReportHandler(reports ReportGenerator, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		reports: reports,
		now:     func() time.Time { return time.Now().In(loc) },
		logger:  logger,
	}
}

// Daily returns the report of ?date=YYYY-MM-DD, today when absent.
func (h *ReportHandler) Daily(c *gin.Context) {
	day := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			h.logger.Warn("invalid report date", zap.String("date", raw))
			badRequest(c, &validation.ValidationError{Field: "date", Message: err.Error()})
			return
		}
		day = parsed
	}

	report, err := h.reports.DailyReport(c.Request.Context(), day)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report)
}
