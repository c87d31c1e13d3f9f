// Package controller turns repository outcomes into HTTP-facing envelopes.
package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Record is implemented by every stored entity.
type Record interface {
	Summary() string
}

// Store is the repository contract shared by the four resources.
type Store[T Record, C any, P any] interface {
	Create(ctx context.Context, in C) (*T, error)
	List(ctx context.Context, req models.PageRequest) (models.Page[T], error)
	Get(ctx context.Context, lookup models.Lookup) (*T, error)
	Update(ctx context.Context, id int64, patch P) (models.MutationResult, error)
	SoftDelete(ctx context.Context, id int64) (models.MutationResult, error)
}

// Response is a status code plus the JSON body to render.
type Response struct {
	Status int
	Body   any
}

// Controller maps Store outcomes for one resource. Domain outcomes become
// responses; any other error is returned untouched for the HTTP layer.
type Controller[T Record, C any, P any] struct {
	resource string
	store    Store[T, C, P]
	logger   *zap.Logger
}

// New builds a controller for the named resource.
func New[T Record, C any, P any](resource string, store Store[T, C, P], logger *zap.Logger) *Controller[T, C, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T, C, P]{resource: resource, store: store, logger: logger}
}

// Resource returns the display name used in messages.
func (c *Controller[T, C, P]) Resource() string {
	return c.resource
}

func (c *Controller[T, C, P]) Create(ctx context.Context, in C) (Response, error) {
	item, err := c.store.Create(ctx, in)
	switch {
	case err == nil:
		summary := (*item).Summary()
		c.logger.Info("record created", zap.String("resource", c.resource), zap.String("summary", summary))
		return Response{
			Status: http.StatusCreated,
			Body: models.Envelope[T]{
				Message: fmt.Sprintf("%s created successfully", summary),
				Status:  http.StatusCreated,
				Item:    item,
			},
		}, nil
	case errors.Is(err, models.ErrAlreadyExists):
		return c.message(http.StatusBadRequest, fmt.Sprintf("%s already exists", c.resource)), nil
	case errors.Is(err, models.ErrNotFound):
		return c.message(http.StatusNotFound, fmt.Sprintf("Unable to create %s: %v", c.resource, err)), nil
	case models.IsDomainError(err):
		return c.message(http.StatusBadRequest, fmt.Sprintf("Unable to create %s: %v", c.resource, err)), nil
	default:
		return Response{}, err
	}
}

func (c *Controller[T, C, P]) List(ctx context.Context, req models.PageRequest) (Response, error) {
	page, err := c.store.List(ctx, req)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: http.StatusOK, Body: page}, nil
}

func (c *Controller[T, C, P]) Get(ctx context.Context, lookup models.Lookup) (Response, error) {
	item, err := c.store.Get(ctx, lookup)
	if errors.Is(err, models.ErrNotFound) {
		return c.message(http.StatusNotFound, fmt.Sprintf("The %s with ID or Name: %s does not exist", c.resource, lookup)), nil
	}
	if err != nil {
		return Response{}, err
	}
	return Response{Status: http.StatusOK, Body: item}, nil
}

func (c *Controller[T, C, P]) Update(ctx context.Context, id int64, patch P) (Response, error) {
	result, err := c.store.Update(ctx, id, patch)
	return c.mutation(id, "update", "updated", result, err)
}

func (c *Controller[T, C, P]) Delete(ctx context.Context, id int64) (Response, error) {
	result, err := c.store.SoftDelete(ctx, id)
	return c.mutation(id, "delete", "deleted", result, err)
}

func (c *Controller[T, C, P]) mutation(id int64, verb, done string, result models.MutationResult, err error) (Response, error) {
	switch {
	case err != nil && errors.Is(err, models.ErrAlreadyExists):
		return c.message(http.StatusBadRequest, fmt.Sprintf("Unable to %s %s with the ID %d: %s already exists", verb, c.resource, id, c.resource)), nil
	case err != nil && models.IsDomainError(err):
		return c.message(http.StatusBadRequest, fmt.Sprintf("Unable to %s %s with the ID %d: %v", verb, c.resource, id, err)), nil
	case err != nil:
		return Response{}, err
	case !result.Exists:
		return c.message(http.StatusNotFound, fmt.Sprintf("The %s provided was not found: ID = %d", c.resource, id)), nil
	case !result.Applied:
		return c.message(http.StatusBadRequest, fmt.Sprintf("Unable to %s %s with the ID %d", verb, c.resource, id)), nil
	}

	c.logger.Info("record "+done, zap.String("resource", c.resource), zap.Int64("id", id))
	return c.message(http.StatusOK, fmt.Sprintf("%s with the ID %d %s successfully", c.resource, id, done)), nil
}

func (c *Controller[T, C, P]) message(status int, msg string) Response {
	return Response{Status: status, Body: models.Envelope[T]{Message: msg, Status: status}}
}
