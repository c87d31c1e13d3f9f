package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// ReportRepository aggregates herd figures for reporting.
type ReportRepository struct {
	db bun.IDB
}

func NewReportRepository(db bun.IDB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Snapshot counts the active herd and sums the products recorded in [from, to).
func (r *ReportRepository) Snapshot(ctx context.Context, from, to time.Time) (models.HerdSnapshot, error) {
	var snap models.HerdSnapshot
	var err error

	if snap.ActiveCattle, err = r.countActive(ctx, (*models.Cattle)(nil)); err != nil {
		return snap, err
	}
	if snap.ActiveLots, err = r.countActive(ctx, (*models.Lot)(nil)); err != nil {
		return snap, err
	}
	if snap.ActiveBreeds, err = r.countActive(ctx, (*models.Breed)(nil)); err != nil {
		return snap, err
	}

	snap.ProducingCattle, err = r.db.NewSelect().
		Model((*models.Cattle)(nil)).
		Where("?TableAlias.is_delete = ?", false).
		Where("lower(?TableAlias.age_group) NOT IN (?)", bun.In(models.NonProducingAgeGroups())).
		Count(ctx)
	if err != nil {
		return snap, fmt.Errorf("count producing cattle: %w", err)
	}

	err = r.db.NewSelect().
		Model((*models.Product)(nil)).
		ColumnExpr("count(*)").
		ColumnExpr("COALESCE(SUM(?TableAlias.total_milk), 0.0)").
		Where("?TableAlias.is_delete = ?", false).
		Where("?TableAlias.date >= ?", from.UTC()).
		Where("?TableAlias.date < ?", to.UTC()).
		Scan(ctx, &snap.Products, &snap.TotalMilk)
	if err != nil {
		return snap, fmt.Errorf("sum products: %w", err)
	}

	return snap, nil
}

func (r *ReportRepository) countActive(ctx context.Context, model any) (int, error) {
	n, err := r.db.NewSelect().
		Model(model).
		Where("?TableAlias.is_delete = ?", false).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %T: %w", model, err)
	}
	return n, nil
}
