package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Weights travel as JSON numbers, the same way clients send them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Timestamps are bookkeeping columns that never leave the service.
type Timestamps struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"-"`
}

// Touch stamps both columns for a fresh row.
func (t *Timestamps) Touch(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Change is one column assignment produced by a patch.
type Change struct {
	Column string
	Value  any
}

func weight(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func dateOr(d *Date, fallback time.Time) time.Time {
	if d == nil || d.IsZero() {
		return fallback
	}
	return d.Time
}
