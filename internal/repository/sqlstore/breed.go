package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// BreedRepository persists breeds. Rows with isEditable=false reject updates
// and deletes.
type BreedRepository struct {
	db  bun.IDB
	now clock
}

func NewBreedRepository(db bun.IDB) *BreedRepository {
	return &BreedRepository{db: db, now: utcNow}
}

func (r *BreedRepository) Create(ctx context.Context, in models.BreedInput) (*models.Breed, error) {
	row := in.ToModel(r.now())

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUnique[models.Breed](ctx, tx, "name", row.Name, 0); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return uniqueViolation(err)
		}
		return tx.NewSelect().Model(&row).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, wrap("create breed", err)
	}
	return &row, nil
}

func (r *BreedRepository) List(ctx context.Context, req models.PageRequest) (models.Page[models.Breed], error) {
	page, err := listActive[models.Breed](ctx, r.db, req)
	if err != nil {
		return page, fmt.Errorf("list breeds: %w", err)
	}
	return page, nil
}

// Get looks a breed up by id or by its active name.
func (r *BreedRepository) Get(ctx context.Context, lookup models.Lookup) (*models.Breed, error) {
	var (
		row *models.Breed
		err error
	)
	if lookup.ByID {
		row, err = findByID[models.Breed](ctx, r.db, lookup.ID)
	} else {
		row, err = findActiveByKey[models.Breed](ctx, r.db, "name", lookup.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("get breed %s: %w", lookup, err)
	}
	return row, nil
}

func (r *BreedRepository) Update(ctx context.Context, id int64, patch models.BreedPatch) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.editable(ctx, tx, id, &result)
		if err != nil || current == nil {
			return err
		}

		if patch.Name != nil && *patch.Name != current.Name {
			if err := ensureUnique[models.Breed](ctx, tx, "name", *patch.Name, id); err != nil {
				return err
			}
		}

		result.Applied, err = applyChanges[models.Breed](ctx, tx, id, patch.Changes(), r.now())
		return err
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("update breed %d", id), err)
	}
	return result, nil
}

func (r *BreedRepository) SoftDelete(ctx context.Context, id int64) (models.MutationResult, error) {
	var result models.MutationResult

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := r.editable(ctx, tx, id, &result)
		if err != nil || current == nil {
			return err
		}
		result.Applied, err = softDelete[models.Breed](ctx, tx, id, r.now())
		return err
	})
	if err != nil {
		return result, wrap(fmt.Sprintf("delete breed %d", id), err)
	}
	return result, nil
}

// editable loads the active breed and records its existence. A missing row
// yields (nil, nil); a locked row yields ErrNotEditable.
func (r *BreedRepository) editable(ctx context.Context, db bun.IDB, id int64, result *models.MutationResult) (*models.Breed, error) {
	current, err := findActive[models.Breed](ctx, db, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result.Exists = true
	if !current.IsEditable {
		return nil, fmt.Errorf("breed %s: %w", current.Name, models.ErrNotEditable)
	}
	return current, nil
}
