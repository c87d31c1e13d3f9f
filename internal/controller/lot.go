package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// LotStore adds member listing to the lot repository contract.
type LotStore interface {
	Store[models.Lot, models.LotInput, models.LotPatch]
	Members(ctx context.Context, id int64) (models.LotMembers, error)
}

// LotController extends the generic controller with the members view.
type LotController struct {
	*Controller[models.Lot, models.LotInput, models.LotPatch]
	lots LotStore
}

func NewLotController(store LotStore, logger *zap.Logger) *LotController {
	return &LotController{
		Controller: New[models.Lot, models.LotInput, models.LotPatch](ResourceLots, store, logger),
		lots:       store,
	}
}

// Members returns the lot with its active cattle.
func (c *LotController) Members(ctx context.Context, id int64) (Response, error) {
	members, err := c.lots.Members(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return c.message(http.StatusNotFound, fmt.Sprintf("The %s with ID or Name: %d does not exist", c.resource, id)), nil
	}
	if err != nil {
		return Response{}, err
	}
	return Response{Status: http.StatusOK, Body: members}, nil
}
