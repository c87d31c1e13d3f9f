package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// findByID loads a row by id whatever its soft delete flag.
func findByID[T any](ctx context.Context, db bun.IDB, id int64) (*T, error) {
	row := new(T)
	err := db.NewSelect().
		Model(row).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

// findActive loads a non-deleted row by id.
func findActive[T any](ctx context.Context, db bun.IDB, id int64) (*T, error) {
	row := new(T)
	err := db.NewSelect().
		Model(row).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_delete = ?", false).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

// findActiveByKey loads a non-deleted row by a natural key column.
func findActiveByKey[T any](ctx context.Context, db bun.IDB, column string, value any) (*T, error) {
	row := new(T)
	err := db.NewSelect().
		Model(row).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Where("?TableAlias.is_delete = ?", false).
		OrderExpr("?TableAlias.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

// activeKeyExists reports whether a non-deleted row other than excludeID holds value.
func activeKeyExists[T any](ctx context.Context, db bun.IDB, column string, value any, excludeID int64) (bool, error) {
	q := db.NewSelect().
		Model((*T)(nil)).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Where("?TableAlias.is_delete = ?", false)
	if excludeID > 0 {
		q = q.Where("?TableAlias.id != ?", excludeID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check %s uniqueness: %w", column, err)
	}
	return exists, nil
}

func ensureUnique[T any](ctx context.Context, db bun.IDB, column string, value any, excludeID int64) error {
	exists, err := activeKeyExists[T](ctx, db, column, value, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %v: %w", column, value, models.ErrAlreadyExists)
	}
	return nil
}

// ensureReference checks that a non-deleted row with the given id exists.
func ensureReference[T any](ctx context.Context, db bun.IDB, what string, id int64) error {
	exists, err := db.NewSelect().
		Model((*T)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_delete = ?", false).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check %s reference: %w", what, err)
	}
	if !exists {
		return fmt.Errorf("%s with ID %d: %w", what, id, models.ErrReferenceNotFound)
	}
	return nil
}

// listActive returns one page of non-deleted rows ordered by id.
func listActive[T any](ctx context.Context, db bun.IDB, req models.PageRequest) (models.Page[T], error) {
	var items []T
	err := db.NewSelect().
		Model(&items).
		Where("?TableAlias.is_delete = ?", false).
		OrderExpr("?TableAlias.id ASC").
		Limit(req.Limit).
		Offset(req.Offset()).
		Scan(ctx)
	if err != nil {
		return models.Page[T]{}, err
	}

	total, err := db.NewSelect().
		Model((*T)(nil)).
		Where("?TableAlias.is_delete = ?", false).
		Count(ctx)
	if err != nil {
		return models.Page[T]{}, err
	}

	return models.NewPage(req, items, total), nil
}

// applyChanges writes a patch to a non-deleted row and reports whether a row changed.
func applyChanges[T any](ctx context.Context, db bun.IDB, id int64, changes []models.Change, now time.Time) (bool, error) {
	q := db.NewUpdate().
		Model((*T)(nil)).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("is_delete = ?", false)
	for _, ch := range changes {
		q = q.Set("? = ?", bun.Ident(ch.Column), ch.Value)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return false, uniqueViolation(err)
	}
	return affected(res)
}

// softDelete flips is_delete on a non-deleted row.
func softDelete[T any](ctx context.Context, db bun.IDB, id int64, now time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*T)(nil)).
		Set("is_delete = ?", true).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("is_delete = ?", false).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// refreshLotTotal recounts the non-deleted cattle of a lot. On postgres the lot
// row is locked first, so the count runs in a fresh READ COMMITTED snapshot
// that sees every cattle committed by writers that held the lock before.
func refreshLotTotal(ctx context.Context, db bun.IDB, lotID *int64) error {
	if lotID == nil {
		return nil
	}

	if db.Dialect().Name() == dialect.PG {
		var locked int64
		if err := lockLotQuery(db, *lotID).Scan(ctx, &locked); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock lot %d: %w", *lotID, err)
		}
	}

	total, err := db.NewSelect().
		Model((*models.Cattle)(nil)).
		Where("?TableAlias.lot_id = ?", *lotID).
		Where("?TableAlias.is_delete = ?", false).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("count cattle of lot %d: %w", *lotID, err)
	}

	_, err = db.NewUpdate().
		Model((*models.Lot)(nil)).
		Set("total_cattle = ?", total).
		Where("id = ?", *lotID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("refresh total of lot %d: %w", *lotID, err)
	}
	return nil
}

// lockLotQuery takes the row lock plain UPDATEs take. NO KEY UPDATE does not
// conflict with the KEY SHARE lock the cattle foreign key check holds.
func lockLotQuery(db bun.IDB, lotID int64) *bun.SelectQuery {
	return db.NewSelect().
		Model((*models.Lot)(nil)).
		Column("id").
		Where("?TableAlias.id = ?", lotID).
		For("NO KEY UPDATE")
}

// wrap prefixes infrastructure failures with the operation. Domain outcomes
// pass through unchanged.
func wrap(op string, err error) error {
	if err == nil || models.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

// uniqueViolation maps a unique index failure, raised when a concurrent writer
// wins the race past the pre-check, onto ErrAlreadyExists.
func uniqueViolation(err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
		return fmt.Errorf("%s: %w", pgErr.Field('M'), models.ErrAlreadyExists)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) &&
		(liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || strings.Contains(liteErr.Error(), "UNIQUE constraint failed")) {
		return fmt.Errorf("%s: %w", liteErr.Error(), models.ErrAlreadyExists)
	}
	return err
}
