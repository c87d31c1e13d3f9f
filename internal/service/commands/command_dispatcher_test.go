package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

type fakeReports struct {
	day time.Time
	err error
}

func (f *fakeReports) DailyReport(_ context.Context, day time.Time) (models.HerdReport, error) {
	f.day = day
	return models.HerdReport{Date: day, ActiveCattle: 12, ProducingCattle: 9, ActiveLots: 2, ActiveBreeds: 3}, f.err
}

type fakeLots struct {
	lots map[string]models.Lot
	err  error
}

func (f fakeLots) Get(_ context.Context, lookup models.Lookup) (*models.Lot, error) {
	if f.err != nil {
		return nil, f.err
	}
	lot, ok := f.lots[lookup.Key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &lot, nil
}

type fakeCattle struct{}

func (fakeCattle) Get(_ context.Context, lookup models.Lookup) (*models.Cattle, error) {
	if lookup.ID != 101 {
		return nil, models.ErrNotFound
	}
	return &models.Cattle{
		ID:              4,
		Number:          101,
		AgeGroup:        models.AgeGroupCow,
		InitWeight:      decimal.RequireFromString("250.5"),
		QuarterlyWeight: decimal.RequireFromString("301"),
	}, nil
}

func newService(reports *fakeReports, lots fakeLots) *Service {
	s := NewService(reports, lots, fakeCattle{}, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Report(t *testing.T) {
	reports := &fakeReports{}
	s := newService(reports, fakeLots{})

	reply, err := s.HandleCommand(context.Background(), models.ParseCommand("report"), "573001112233")
	require.NoError(t, err)
	assert.Contains(t, reply, "Herd report 2024-03-02")
	assert.Contains(t, reply, "Cattle: 12 active, 9 producing")

	_, err = s.HandleCommand(context.Background(), models.ParseCommand("report 2024-02-28"), "573001112233")
	require.NoError(t, err)
	assert.Equal(t, 28, reports.day.Day())

	reply, err = s.HandleCommand(context.Background(), models.ParseCommand("report yesterday"), "573001112233")
	require.NoError(t, err)
	assert.Contains(t, reply, "Invalid date")

	reports.err = errors.New("db down")
	_, err = s.HandleCommand(context.Background(), models.ParseCommand("report"), "573001112233")
	assert.Error(t, err)
}

func TestService_Lot(t *testing.T) {
	lots := fakeLots{lots: map[string]models.Lot{
		"North pasture": {ID: 1, Name: "North pasture", Supplier: "Finca El Sol", ReceiveDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), TotalCattle: 7},
	}}
	s := newService(&fakeReports{}, lots)

	reply, err := s.HandleCommand(context.Background(), models.ParseCommand("lot North pasture"), "")
	require.NoError(t, err)
	assert.Equal(t, "Lot North pasture (ID 1)\nSupplier: Finca El Sol\nReceived: 2024-02-01\nCattle: 7", reply)

	reply, err = s.HandleCommand(context.Background(), models.ParseCommand("lot South"), "")
	require.NoError(t, err)
	assert.Equal(t, "Lot South not found.", reply)

	reply, err = s.HandleCommand(context.Background(), models.ParseCommand("lot"), "")
	require.NoError(t, err)
	assert.Equal(t, "Usage: lot <id or name>", reply)

	s = newService(&fakeReports{}, fakeLots{err: errors.New("timeout")})
	_, err = s.HandleCommand(context.Background(), models.ParseCommand("lot 1"), "")
	assert.Error(t, err)
}

func TestService_Cattle(t *testing.T) {
	s := newService(&fakeReports{}, fakeLots{})

	reply, err := s.HandleCommand(context.Background(), models.ParseCommand("cattle 101"), "")
	require.NoError(t, err)
	assert.Equal(t, "Cattle number 101 (ID 4)\nAge group: cow\nWeight: 250.50 kg initial, 301.00 kg quarterly", reply)

	reply, err = s.HandleCommand(context.Background(), models.ParseCommand("cattle 7"), "")
	require.NoError(t, err)
	assert.Equal(t, "Cattle 7 not found.", reply)

	reply, err = s.HandleCommand(context.Background(), models.ParseCommand("cattle bessie"), "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Usage")
}

func TestService_HelpAndUnknown(t *testing.T) {
	s := newService(&fakeReports{}, fakeLots{})

	reply, err := s.HandleCommand(context.Background(), models.ParseCommand("help"), "")
	require.NoError(t, err)
	assert.Equal(t, HelpText, reply)

	reply, err = s.HandleCommand(context.Background(), models.ParseCommand("eggs 120"), "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Unknown command.")
}
