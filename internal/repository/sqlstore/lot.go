package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// LotRepository persists lots. totalCattle is maintained by the cattle
// repository and by RecalculateTotals, never by clients.
type LotRepository struct {
	db  bun.IDB
	now clock
}

func NewLotRepository(db bun.IDB) *LotRepository {
	return &LotRepository{db: db, now: utcNow}
}

func (r *LotRepository) Create(ctx context.Context, in models.LotInput) (*models.Lot, error) {
	row := in.ToModel(r.now())

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUnique[models.Lot](ctx, tx, "name", row.Name, 0); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return uniqueViolation(err)
		}
		return tx.NewSelect().Model(&row).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, wrap("create lot", err)
	}
	return &row, nil
}

func (r *LotRepository) List(ctx context.Context, req models.PageRequest) (models.Page[models.Lot], error) {
	page, err := listActive[models.Lot](ctx, r.db, req)
	if err != nil {
		return page, fmt.Errorf("list lots: %w", err)
	}
	return page, nil
}

// Get looks a lot up by id or by its active name.
func (r *LotRepository) Get(ctx context.Context, lookup models.Lookup) (*models.Lot, error) {
	var (
		row *models.Lot
		err error
	)
	if lookup.ByID {
		row, err = findByID[models.Lot](ctx, r.db, lookup.ID)
	} else {
		row, err = findActiveByKey[models.Lot](ctx, r.db, "name", lookup.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("get lot %s: %w", lookup, err)
	}
	return row, nil
}

func (r *LotRepository) Update(ctx context.Context, id int64, patch models.LotPatch) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := findActive[models.Lot](ctx, tx, id)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		result.Exists = true

		if patch.Name != nil && *patch.Name != current.Name {
			if err := ensureUnique[models.Lot](ctx, tx, "name", *patch.Name, id); err != nil {
				return err
			}
		}

		result.Applied, err = applyChanges[models.Lot](ctx, tx, id, patch.Changes(), r.now())
		return err
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("update lot %d", id), err)
	}
	return result, nil
}

func (r *LotRepository) SoftDelete(ctx context.Context, id int64) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := findActive[models.Lot](ctx, tx, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			return err
		}
		result.Exists = true

		var err error
		result.Applied, err = softDelete[models.Lot](ctx, tx, id, r.now())
		return err
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("delete lot %d", id), err)
	}
	return result, nil
}

// Members returns an active lot together with its active cattle.
func (r *LotRepository) Members(ctx context.Context, id int64) (models.LotMembers, error) {
	lot, err := findActive[models.Lot](ctx, r.db, id)
	if err != nil {
		return models.LotMembers{}, fmt.Errorf("get lot %d members: %w", id, err)
	}

	cattle := make([]models.Cattle, 0)
	err = r.db.NewSelect().
		Model(&cattle).
		Where("?TableAlias.lot_id = ?", id).
		Where("?TableAlias.is_delete = ?", false).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return models.LotMembers{}, fmt.Errorf("list cattle of lot %d: %w", id, err)
	}

	return models.LotMembers{
		ID:       lot.ID,
		Name:     lot.Name,
		Register: lot.Register,
		Data:     cattle,
	}, nil
}

// RecalculateTotals recounts every active lot and returns how many lots were
// refreshed.
func (r *LotRepository) RecalculateTotals(ctx context.Context) (int, error) {
	var ids []int64
	err := r.db.NewSelect().
		Model((*models.Lot)(nil)).
		Column("id").
		Where("?TableAlias.is_delete = ?", false).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return 0, fmt.Errorf("list lots for reconciliation: %w", err)
	}

	err = r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range ids {
			if err := refreshLotTotal(ctx, tx, &ids[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reconcile lot totals: %w", err)
	}
	return len(ids), nil
}
