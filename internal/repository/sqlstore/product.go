package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// ProductRepository persists milk production entries. Products are only
// accepted for cattle of a producing age group.
type ProductRepository struct {
	db  bun.IDB
	now clock
}

func NewProductRepository(db bun.IDB) *ProductRepository {
	return &ProductRepository{db: db, now: utcNow}
}

// Create records a product. A missing cattle is reported as ErrNotFound.
func (r *ProductRepository) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	row := in.ToModel(r.now())

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		cattle, err := findActive[models.Cattle](ctx, tx, row.CattleID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("cattle with ID %d: %w", row.CattleID, err)
			}
			return err
		}
		if err := producing(cattle); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		return tx.NewSelect().Model(&row).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, wrap("create product", err)
	}
	return &row, nil
}

func (r *ProductRepository) List(ctx context.Context, req models.PageRequest) (models.Page[models.Product], error) {
	page, err := listActive[models.Product](ctx, r.db, req)
	if err != nil {
		return page, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// Get looks a product up by id only.
func (r *ProductRepository) Get(ctx context.Context, lookup models.Lookup) (*models.Product, error) {
	if !lookup.ByID {
		return nil, fmt.Errorf("product %q: %w", lookup.Key, models.ErrNotFound)
	}
	row, err := findByID[models.Product](ctx, r.db, lookup.ID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", lookup, err)
	}
	return row, nil
}

// Update applies a patch. Re-pointing the product to another cattle checks
// that cattle again.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch models.ProductPatch) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := findActive[models.Product](ctx, tx, id)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		result.Exists = true

		if patch.CattleID != nil && *patch.CattleID != current.CattleID {
			cattle, err := findActive[models.Cattle](ctx, tx, *patch.CattleID)
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("cattle with ID %d: %w", *patch.CattleID, models.ErrReferenceNotFound)
			}
			if err != nil {
				return err
			}
			if err := producing(cattle); err != nil {
				return err
			}
		}

		result.Applied, err = applyChanges[models.Product](ctx, tx, id, patch.Changes(), r.now())
		return err
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("update product %d", id), err)
	}
	return result, nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := findActive[models.Product](ctx, tx, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			return err
		}
		result.Exists = true

		var err error
		result.Applied, err = softDelete[models.Product](ctx, tx, id, r.now())
		return err
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("delete product %d", id), err)
	}
	return result, nil
}

func producing(c *models.Cattle) error {
	if !c.AgeGroup.CanProduce() {
		return fmt.Errorf("cattle number %d is a %s: %w", c.Number, c.AgeGroup, models.ErrNonProducing)
	}
	return nil
}
