package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Cattle is one animal of the herd.
type Cattle struct {
	bun.BaseModel `bun:"table:cattle,alias:c"`

	ID              int64           `bun:"id,pk,autoincrement" json:"id"`
	Number          int64           `bun:"number,notnull" json:"number"`
	InitWeight      decimal.Decimal `bun:"init_weight,type:decimal(10,2),notnull" json:"initWeight"`
	QuarterlyWeight decimal.Decimal `bun:"quarterly_weight,type:decimal(10,2),notnull" json:"quarterlyWeight"`
	AgeGroup        AgeGroup        `bun:"age_group,type:varchar(32),notnull" json:"ageGroup"`
	RegisterDate    time.Time       `bun:"register_date,nullzero,notnull,default:current_timestamp" json:"registerDate"`
	Register        string          `bun:"register,type:varchar(255),notnull" json:"register"`
	BreedID         int64           `bun:"breed_id,notnull" json:"BreedId"`
	LotID           *int64          `bun:"lot_id" json:"LotId"`
	IsDelete        bool            `bun:"is_delete,notnull,default:false" json:"isDelete"`
	Timestamps

	Breed *Breed `bun:"rel:belongs-to,join:breed_id=id" json:"-"`
	Lot   *Lot   `bun:"rel:belongs-to,join:lot_id=id" json:"-"`
}

// Summary is the human label used in response messages.
func (c Cattle) Summary() string {
	return fmt.Sprintf("Cattle number %d", c.Number)
}

// CattleInput is the create payload for /api/cattle.
type CattleInput struct {
	Number          int64    `json:"number" binding:"required,gte=3"`
	BreedID         int64    `json:"BreedId" binding:"required,gte=1"`
	LotID           *int64   `json:"LotId" binding:"omitempty,gte=1"`
	InitWeight      *float64 `json:"initWeight" binding:"required,gt=0"`
	QuarterlyWeight *float64 `json:"quarterlyWeight" binding:"omitempty,gt=0"`
	AgeGroup        string   `json:"ageGroup" binding:"required,agegroup"`
	RegisterDate    *Date    `json:"registerDate"`
	Register        string   `json:"register" binding:"required,max=255,register"`
}

// ToModel builds the row to insert. A missing quarterly weight starts at the
// initial weight.
func (in CattleInput) ToModel(now time.Time) Cattle {
	initial := weight(*in.InitWeight)
	quarterly := initial
	if in.QuarterlyWeight != nil {
		quarterly = weight(*in.QuarterlyWeight)
	}
	c := Cattle{
		Number:          in.Number,
		InitWeight:      initial,
		QuarterlyWeight: quarterly,
		AgeGroup:        TrimAgeGroup(in.AgeGroup),
		RegisterDate:    dateOr(in.RegisterDate, now),
		Register:        in.Register,
		BreedID:         in.BreedID,
		LotID:           in.LotID,
	}
	c.Touch(now)
	return c
}

// CattlePatch is the partial update payload for /api/cattle/:id. A null
// LotId takes the cattle out of its lot.
type CattlePatch struct {
	Number          *int64     `json:"number" binding:"omitempty,gte=3"`
	BreedID         *int64     `json:"BreedId" binding:"omitempty,gte=1"`
	LotID           OptionalID `json:"LotId" binding:"omitempty,gte=1"`
	InitWeight      *float64   `json:"initWeight" binding:"omitempty,gt=0"`
	QuarterlyWeight *float64   `json:"quarterlyWeight" binding:"omitempty,gt=0"`
	AgeGroup        *string    `json:"ageGroup" binding:"omitempty,agegroup"`
	Register        *string    `json:"register" binding:"omitempty,max=255,register"`
}

// Changes lists the column assignments carried by the patch.
func (p CattlePatch) Changes() []Change {
	var changes []Change
	if p.Number != nil {
		changes = append(changes, Change{"number", *p.Number})
	}
	if p.BreedID != nil {
		changes = append(changes, Change{"breed_id", *p.BreedID})
	}
	if p.LotID.Set {
		changes = append(changes, Change{"lot_id", p.LotID.ID})
	}
	if p.InitWeight != nil {
		changes = append(changes, Change{"init_weight", weight(*p.InitWeight)})
	}
	if p.QuarterlyWeight != nil {
		changes = append(changes, Change{"quarterly_weight", weight(*p.QuarterlyWeight)})
	}
	if p.AgeGroup != nil {
		changes = append(changes, Change{"age_group", TrimAgeGroup(*p.AgeGroup)})
	}
	if p.Register != nil {
		changes = append(changes, Change{"register", *p.Register})
	}
	return changes
}

// IsEmpty reports whether no field was supplied.
func (p CattlePatch) IsEmpty() bool {
	return len(p.Changes()) == 0
}
