package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
)

const dateFormat = "2006-01-02"

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// HelpText lists the supported queries.
const HelpText = "Herd queries:\n" +
	"report [YYYY-MM-DD] - daily herd report\n" +
	"lot <id or name> - lot details\n" +
	"cattle <id or number> - cattle details"

// ReportGenerator builds the herd report of one day.
type ReportGenerator interface {
	DailyReport(ctx context.Context, day time.Time) (models.HerdReport, error)
}

// LotFinder resolves a lot by id or name.
type LotFinder interface {
	Get(ctx context.Context, lookup models.Lookup) (*models.Lot, error)
}

// CattleFinder resolves a cattle by id or number.
type CattleFinder interface {
	Get(ctx context.Context, lookup models.Lookup) (*models.Cattle, error)
}

// Service answers parsed chat commands from the herd records.
type Service struct {
	reports ReportGenerator
	lots    LotFinder
	cattle  CattleFinder
	logger  *zap.Logger
	now     func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(reports ReportGenerator, lots LotFinder, cattle CattleFinder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reports: reports,
		lots:    lots,
		cattle:  cattle,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleCommand returns the reply text for cmd. Lookups that find nothing are
// answered in the reply; only infrastructure failures return an error.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandReport:
		return s.report(ctx, cmd.Args)
	case models.CommandLot:
		return s.lot(ctx, cmd.Args)
	case models.CommandCattle:
		return s.cattleDetails(ctx, cmd.Args)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "Unknown command.\n" + HelpText, nil
	}
}

func (s *Service) report(ctx context.Context, args []string) (string, error) {
	day := s.now()
	if len(args) > 0 {
		parsed, err := models.ParseDate(args[0])
		if err != nil {
			return fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", args[0]), nil
		}
		day = parsed
	}

	report, err := s.reports.DailyReport(ctx, day)
	if err != nil {
		return "", err
	}
	return reporting.FormatReport(report), nil
}

func (s *Service) lot(ctx context.Context, args []string) (string, error) {
	lookup, err := lookupArg(args)
	if err != nil {
		return "Usage: lot <id or name>", nil
	}

	lot, err := s.lots.Get(ctx, lookup)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Sprintf("Lot %s not found.", lookup), nil
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Lot %s (ID %d)\nSupplier: %s\nReceived: %s\nCattle: %d",
		lot.Name, lot.ID, lot.Supplier, lot.ReceiveDate.Format(dateFormat), lot.TotalCattle), nil
}

func (s *Service) cattleDetails(ctx context.Context, args []string) (string, error) {
	lookup, err := lookupArg(args)
	if err != nil || !lookup.ByID {
		return "Usage: cattle <id or number>", nil
	}

	c, err := s.cattle.Get(ctx, lookup)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Sprintf("Cattle %s not found.", lookup), nil
	}
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("Cattle number %d (ID %d)\nAge group: %s\nWeight: %s kg initial, %s kg quarterly",
		c.Number, c.ID, c.AgeGroup, c.InitWeight.StringFixed(2), c.QuarterlyWeight.StringFixed(2))
	if c.IsDelete {
		msg += "\nStatus: deleted"
	}
	return msg, nil
}

// lookupArg joins the arguments so lot names may contain spaces.
func lookupArg(args []string) (models.Lookup, error) {
	raw := strings.TrimSpace(strings.Join(args, " "))
	if raw == "" {
		return models.Lookup{}, ErrInvalidArguments
	}
	return models.ParseLookup(raw), nil
}
