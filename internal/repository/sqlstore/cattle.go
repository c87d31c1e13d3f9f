package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// CattleRepository persists cattle and keeps lot totals in step with them.
type CattleRepository struct {
	db  bun.IDB
	now clock
}

// NewCattleRepository creates a cattle repository.
func NewCattleRepository(db bun.IDB) *CattleRepository {
	return &CattleRepository{db: db, now: utcNow}
}

// Create inserts a cattle after checking its number and references, then
// refreshes the total of its lot in the same transaction.
func (r *CattleRepository) Create(ctx context.Context, in models.CattleInput) (*models.Cattle, error) {
	row := in.ToModel(r.now())

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUnique[models.Cattle](ctx, tx, "number", row.Number, 0); err != nil {
			return err
		}
		if err := ensureReference[models.Breed](ctx, tx, "Breed", row.BreedID); err != nil {
			return err
		}
		if row.LotID != nil {
			if err := ensureReference[models.Lot](ctx, tx, "Lots", *row.LotID); err != nil {
				return err
			}
		}

		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return uniqueViolation(err)
		}
		if err := refreshLotTotal(ctx, tx, row.LotID); err != nil {
			return err
		}
		return tx.NewSelect().Model(&row).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, wrap("create cattle", err)
	}
	return &row, nil
}

// List returns one page of non-deleted cattle.
func (r *CattleRepository) List(ctx context.Context, req models.PageRequest) (models.Page[models.Cattle], error) {
	page, err := listActive[models.Cattle](ctx, r.db, req)
	if err != nil {
		return page, fmt.Errorf("list cattle: %w", err)
	}
	return page, nil
}

// Get looks a cattle up by id and, failing that, by its active number.
func (r *CattleRepository) Get(ctx context.Context, lookup models.Lookup) (*models.Cattle, error) {
	if !lookup.ByID {
		return nil, fmt.Errorf("cattle %q: %w", lookup.Key, models.ErrNotFound)
	}

	row, err := findByID[models.Cattle](ctx, r.db, lookup.ID)
	if errors.Is(err, models.ErrNotFound) {
		row, err = findActiveByKey[models.Cattle](ctx, r.db, "number", lookup.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("get cattle %s: %w", lookup, err)
	}
	return row, nil
}

// Update applies a patch to an active cattle. Moving it to another lot, or
// out of any lot, refreshes the totals of the lots involved.
func (r *CattleRepository) Update(ctx context.Context, id int64, patch models.CattlePatch) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := findActive[models.Cattle](ctx, tx, id)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		result.Exists = true

		if patch.Number != nil && *patch.Number != current.Number {
			if err := ensureUnique[models.Cattle](ctx, tx, "number", *patch.Number, id); err != nil {
				return err
			}
		}
		if patch.BreedID != nil && *patch.BreedID != current.BreedID {
			if err := ensureReference[models.Breed](ctx, tx, "Breed", *patch.BreedID); err != nil {
				return err
			}
		}
		lotChanged := patch.LotID.Set && !sameLot(current.LotID, patch.LotID.ID)
		if lotChanged && patch.LotID.ID != nil {
			if err := ensureReference[models.Lot](ctx, tx, "Lots", *patch.LotID.ID); err != nil {
				return err
			}
		}

		applied, err := applyChanges[models.Cattle](ctx, tx, id, patch.Changes(), r.now())
		if err != nil {
			return err
		}
		if lotChanged {
			if err := refreshLotTotal(ctx, tx, current.LotID); err != nil {
				return err
			}
			if err := refreshLotTotal(ctx, tx, patch.LotID.ID); err != nil {
				return err
			}
		}
		result.Applied = applied
		return nil
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("update cattle %d", id), err)
	}
	return result, nil
}

// SoftDelete marks an active cattle deleted and refreshes its lot total.
func (r *CattleRepository) SoftDelete(ctx context.Context, id int64) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := findActive[models.Cattle](ctx, tx, id)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		result.Exists = true

		applied, err := softDelete[models.Cattle](ctx, tx, id, r.now())
		if err != nil {
			return err
		}
		if err := refreshLotTotal(ctx, tx, current.LotID); err != nil {
			return err
		}
		result.Applied = applied
		return nil
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("delete cattle %d", id), err)
	}
	return result, nil
}

func sameLot(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
