package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Lot is a batch of cattle received together from one supplier.
type Lot struct {
	bun.BaseModel `bun:"table:lots,alias:l"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,type:varchar(225),notnull" json:"name"`
	Supplier    string    `bun:"supplier,type:varchar(255),notnull" json:"supplier"`
	ReceiveDate time.Time `bun:"receive_date,notnull" json:"receiveDate"`
	TotalCattle int       `bun:"total_cattle,notnull,default:0" json:"totalCattle"`
	Register    string    `bun:"register,type:varchar(255),notnull" json:"register"`
	IsDelete    bool      `bun:"is_delete,notnull,default:false" json:"isDelete"`
	Timestamps
}

func (l Lot) Summary() string {
	return fmt.Sprintf("Lot %s", l.Name)
}

// LotInput is the create payload for /api/lots. totalCattle is derived and
// never accepted from clients.
type LotInput struct {
	Name        string `json:"name" binding:"required,min=1,max=225"`
	Supplier    string `json:"supplier" binding:"required,max=255"`
	ReceiveDate *Date  `json:"receiveDate" binding:"required"`
	Register    string `json:"register" binding:"required,max=255,register"`
}

func (in LotInput) ToModel(now time.Time) Lot {
	l := Lot{
		Name:        strings.TrimSpace(in.Name),
		Supplier:    in.Supplier,
		ReceiveDate: dateOr(in.ReceiveDate, now),
		Register:    in.Register,
	}
	l.Touch(now)
	return l
}

// LotPatch is the partial update payload for /api/lots/:id.
type LotPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=225"`
	Supplier    *string `json:"supplier" binding:"omitempty,max=255"`
	ReceiveDate *Date   `json:"receiveDate"`
	Register    *string `json:"register" binding:"omitempty,max=255,register"`
}

func (p LotPatch) Changes() []Change {
	var changes []Change
	if p.Name != nil {
		changes = append(changes, Change{"name", strings.TrimSpace(*p.Name)})
	}
	if p.Supplier != nil {
		changes = append(changes, Change{"supplier", *p.Supplier})
	}
	if p.ReceiveDate != nil && !p.ReceiveDate.IsZero() {
		changes = append(changes, Change{"receive_date", p.ReceiveDate.Time})
	}
	if p.Register != nil {
		changes = append(changes, Change{"register", *p.Register})
	}
	return changes
}

func (p LotPatch) IsEmpty() bool {
	return len(p.Changes()) == 0
}

// LotMembers is a lot together with its active cattle.
type LotMembers struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Register string   `json:"register"`
	Data     []Cattle `json:"data"`
}
