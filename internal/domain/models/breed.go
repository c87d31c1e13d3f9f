package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Breed is a cattle breed. Reference breeds seeded at startup are not editable.
type Breed struct {
	bun.BaseModel `bun:"table:breeds,alias:b"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Name       string `bun:"name,type:varchar(225),notnull" json:"name"`
	Origin     string `bun:"origin,type:varchar(225),notnull" json:"origin"`
	Production string `bun:"production,type:varchar(255),notnull" json:"production"`
	Code       string `bun:"code,type:varchar(16),notnull" json:"code"`
	IsEditable bool   `bun:"is_editable,notnull,default:true" json:"isEditable"`
	Register   string `bun:"register,type:varchar(255)" json:"register"`
	IsDelete   bool   `bun:"is_delete,notnull,default:false" json:"isDelete"`
	Timestamps
}

func (b Breed) Summary() string {
	return fmt.Sprintf("Breed %s", b.Name)
}

// BreedInput is the create payload for /api/breed.
type BreedInput struct {
	Name       string `json:"name" binding:"required,min=3,max=225"`
	Origin     string `json:"origin" binding:"required,min=3,max=225"`
	Production string `json:"production" binding:"required,max=255"`
	Code       string `json:"code" binding:"omitempty,min=2,max=16"`
	IsEditable *bool  `json:"isEditable"`
	Register   string `json:"register" binding:"omitempty,max=255,register"`
}

// ToModel builds the row to insert, deriving the code from the name when none
// was supplied.
func (in BreedInput) ToModel(now time.Time) Breed {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		code = GenerateBreedCode(in.Name)
	}
	editable := true
	if in.IsEditable != nil {
		editable = *in.IsEditable
	}
	b := Breed{
		Name:       strings.TrimSpace(in.Name),
		Origin:     in.Origin,
		Production: in.Production,
		Code:       code,
		IsEditable: editable,
		Register:   in.Register,
	}
	b.Touch(now)
	return b
}

// BreedPatch is the partial update payload. isEditable is not part of it.
type BreedPatch struct {
	Name       *string `json:"name" binding:"omitempty,min=3,max=225"`
	Origin     *string `json:"origin" binding:"omitempty,min=3,max=225"`
	Production *string `json:"production" binding:"omitempty,max=255"`
	Code       *string `json:"code" binding:"omitempty,min=2,max=16"`
	Register   *string `json:"register" binding:"omitempty,max=255,register"`
}

func (p BreedPatch) Changes() []Change {
	var changes []Change
	if p.Name != nil {
		changes = append(changes, Change{"name", strings.TrimSpace(*p.Name)})
	}
	if p.Origin != nil {
		changes = append(changes, Change{"origin", *p.Origin})
	}
	if p.Production != nil {
		changes = append(changes, Change{"production", *p.Production})
	}
	if p.Code != nil {
		changes = append(changes, Change{"code", strings.ToUpper(strings.TrimSpace(*p.Code))})
	}
	if p.Register != nil {
		changes = append(changes, Change{"register", *p.Register})
	}
	return changes
}

func (p BreedPatch) IsEmpty() bool {
	return len(p.Changes()) == 0
}
