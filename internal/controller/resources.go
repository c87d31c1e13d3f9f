package controller

import (
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Display names used in response messages.
const (
	ResourceCattle   = "Cattle"
	ResourceBreed    = "Breed"
	ResourceLots     = "Lots"
	ResourceProducts = "Products"
)

type (
	CattleController  = Controller[models.Cattle, models.CattleInput, models.CattlePatch]
	BreedController   = Controller[models.Breed, models.BreedInput, models.BreedPatch]
	ProductController = Controller[models.Product, models.ProductInput, models.ProductPatch]
)

func NewCattleController(store Store[models.Cattle, models.CattleInput, models.CattlePatch], logger *zap.Logger) *CattleController {
	return New(ResourceCattle, store, logger)
}

func NewBreedController(store Store[models.Breed, models.BreedInput, models.BreedPatch], logger *zap.Logger) *BreedController {
	return New(ResourceBreed, store, logger)
}

func NewProductController(store Store[models.Product, models.ProductInput, models.ProductPatch], logger *zap.Logger) *ProductController {
	return New(ResourceProducts, store, logger)
}
