package models

import (
	"strconv"
	"strings"
)

// Default paging applied when clients omit or garble page/limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 1000
)

// PageRequest selects one page of a list.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the number of rows skipped before the page starts.
func (p PageRequest) Offset() int {
	return p.Limit * (p.Page - 1)
}

// Page is the paginated list envelope.
type Page[T any] struct {
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	TotalItems  int `json:"totalItems"`
	Items       []T `json:"item"`
}

// NewPage shapes rows and the total row count into a Page.
func NewPage[T any](req PageRequest, items []T, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = total / req.Limit
		if total%req.Limit != 0 {
			totalPages++
		}
	}
	return Page[T]{
		TotalPages:  totalPages,
		CurrentPage: req.Page,
		TotalItems:  total,
		Items:       items,
	}
}

// Envelope is the single-record response: status, message and, on create, the item.
type Envelope[T any] struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Item    *T     `json:"item,omitempty"`
}

// MutationResult reports the existence-first outcome of an update or soft delete.
type MutationResult struct {
	Exists  bool
	Applied bool
}

// Lookup identifies a record either by numeric id or by its natural string key.
type Lookup struct {
	ID   int64
	Key  string
	ByID bool
}

// ParseLookup turns a path segment into a Lookup: integers select by id, anything
// else by natural key.
func ParseLookup(raw string) Lookup {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Lookup{ID: id, Key: raw, ByID: true}
	}
	return Lookup{Key: raw}
}

func (l Lookup) String() string {
	if l.ByID {
		return strconv.FormatInt(l.ID, 10)
	}
	return l.Key
}
