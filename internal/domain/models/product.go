package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Product is one milk production entry for a cattle.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	CattleID  int64     `bun:"cattle_id,notnull" json:"CattleId"`
	Date      time.Time `bun:"date,nullzero,notnull,default:current_timestamp" json:"date"`
	TotalMilk float64   `bun:"total_milk,notnull" json:"totalMilk"`
	Notes     string    `bun:"notes,type:varchar(255)" json:"notes"`
	Register  string    `bun:"register,type:varchar(255)" json:"register"`
	IsDelete  bool      `bun:"is_delete,notnull,default:false" json:"isDelete"`
	Timestamps

	Cattle *Cattle `bun:"rel:belongs-to,join:cattle_id=id" json:"-"`
}

func (p Product) Summary() string {
	return fmt.Sprintf("Product of cattle %d", p.CattleID)
}

// ProductInput is the create payload for /api/products.
type ProductInput struct {
	CattleID  int64    `json:"CattleId" binding:"required,gte=1"`
	TotalMilk *float64 `json:"totalMilk" binding:"required,gte=0"`
	Notes     string   `json:"notes" binding:"max=255"`
	Date      *Date    `json:"date"`
	Register  string   `json:"register" binding:"omitempty,max=255,register"`
}

func (in ProductInput) ToModel(now time.Time) Product {
	p := Product{
		CattleID:  in.CattleID,
		Date:      dateOr(in.Date, now),
		TotalMilk: *in.TotalMilk,
		Notes:     in.Notes,
		Register:  in.Register,
	}
	p.Touch(now)
	return p
}

// ProductPatch is the partial update payload for /api/products/:id.
type ProductPatch struct {
	CattleID  *int64   `json:"CattleId" binding:"omitempty,gte=1"`
	TotalMilk *float64 `json:"totalMilk" binding:"omitempty,gte=0"`
	Notes     *string  `json:"notes" binding:"omitempty,max=255"`
	Date      *Date    `json:"date"`
	Register  *string  `json:"register" binding:"omitempty,max=255,register"`
}

func (p ProductPatch) Changes() []Change {
	var changes []Change
	if p.CattleID != nil {
		changes = append(changes, Change{"cattle_id", *p.CattleID})
	}
	if p.TotalMilk != nil {
		changes = append(changes, Change{"total_milk", *p.TotalMilk})
	}
	if p.Notes != nil {
		changes = append(changes, Change{"notes", *p.Notes})
	}
	if p.Date != nil && !p.Date.IsZero() {
		changes = append(changes, Change{"date", p.Date.Time})
	}
	if p.Register != nil {
		changes = append(changes, Change{"register", *p.Register})
	}
	return changes
}

func (p ProductPatch) IsEmpty() bool {
	return len(p.Changes()) == 0
}
