package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

func TestCattleRepository_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Romosinuano")
	lot := createLot(t, store, "Lote Norte")

	in := cattleInput(101, breed.ID, &lot.ID, "Vaca")
	in.QuarterlyWeight = ptr(300.25)

	created, err := store.Cattle().Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(101), created.Number)
	assert.Equal(t, "280.5", created.InitWeight.String())
	assert.Equal(t, "300.25", created.QuarterlyWeight.String())
	assert.Equal(t, models.AgeGroup("Vaca"), created.AgeGroup)
	assert.Equal(t, "Juan Perez", created.Register)
	assert.Equal(t, breed.ID, created.BreedID)
	require.NotNil(t, created.LotID)
	assert.Equal(t, lot.ID, *created.LotID)
	assert.False(t, created.IsDelete)

	byID, err := store.Cattle().Get(ctx, models.ParseLookup("1"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	byNumber, err := store.Cattle().Get(ctx, models.ParseLookup("101"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = store.Cattle().Get(ctx, models.ParseLookup("999"))
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = store.Cattle().Get(ctx, models.ParseLookup("bessie"))
	assert.ErrorIs(t, err, models.ErrNotFound)

	reloaded, err := store.Lots().Get(ctx, models.ParseLookup("Lote Norte"))
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.TotalCattle)
}

func TestCattleRepository_CreateDuplicateNumber(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")

	_, err := store.Cattle().Create(ctx, cattleInput(10, breed.ID, nil, "cow"))
	require.NoError(t, err)

	_, err = store.Cattle().Create(ctx, cattleInput(10, breed.ID, nil, "heifer"))
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	page, err := store.Cattle().List(ctx, models.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
}

func TestCattleRepository_CreateMissingReferences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")

	_, err := store.Cattle().Create(ctx, cattleInput(10, 77, nil, "cow"))
	assert.ErrorIs(t, err, models.ErrReferenceNotFound)

	_, err = store.Cattle().Create(ctx, cattleInput(10, breed.ID, ptr(int64(77)), "cow"))
	assert.ErrorIs(t, err, models.ErrReferenceNotFound)
}

func TestCattleRepository_SoftDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")
	lot := createLot(t, store, "Lote Sur")

	created, err := store.Cattle().Create(ctx, cattleInput(12, breed.ID, &lot.ID, "cow"))
	require.NoError(t, err)

	res, err := store.Cattle().SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MutationResult{Exists: true, Applied: true}, res)

	got, err := store.Cattle().Get(ctx, models.Lookup{ID: created.ID, ByID: true})
	require.NoError(t, err)
	assert.True(t, got.IsDelete)

	page, err := store.Cattle().List(ctx, models.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.TotalItems)
	assert.Empty(t, page.Items)

	reloaded, err := store.Lots().Get(ctx, models.Lookup{ID: lot.ID, ByID: true})
	require.NoError(t, err)
	assert.Zero(t, reloaded.TotalCattle)

	res, err = store.Cattle().SoftDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, res.Exists)

	res, err = store.Cattle().Update(ctx, created.ID, models.CattlePatch{Register: ptr("Ana")})
	require.NoError(t, err)
	assert.False(t, res.Exists)
}

func TestCattleRepository_UpdateMovesBetweenLots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")
	north := createLot(t, store, "Norte")
	south := createLot(t, store, "Sur")

	c, err := store.Cattle().Create(ctx, cattleInput(20, breed.ID, &north.ID, "cow"))
	require.NoError(t, err)
	_, err = store.Cattle().Create(ctx, cattleInput(21, breed.ID, &north.ID, "cow"))
	require.NoError(t, err)

	res, err := store.Cattle().Update(ctx, c.ID, models.CattlePatch{LotID: models.SetID(south.ID), Register: ptr("Ana Gomez")})
	require.NoError(t, err)
	assert.Equal(t, models.MutationResult{Exists: true, Applied: true}, res)

	n, err := store.Lots().Get(ctx, models.Lookup{ID: north.ID, ByID: true})
	require.NoError(t, err)
	s, err := store.Lots().Get(ctx, models.Lookup{ID: south.ID, ByID: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n.TotalCattle)
	assert.Equal(t, 1, s.TotalCattle)

	moved, err := store.Cattle().Get(ctx, models.Lookup{ID: c.ID, ByID: true})
	require.NoError(t, err)
	assert.Equal(t, "Ana Gomez", moved.Register)
}

func TestCattleRepository_UpdateClearsLot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")
	north := createLot(t, store, "Norte")

	c, err := store.Cattle().Create(ctx, cattleInput(25, breed.ID, &north.ID, "cow"))
	require.NoError(t, err)

	res, err := store.Cattle().Update(ctx, c.ID, models.CattlePatch{LotID: models.ClearID()})
	require.NoError(t, err)
	assert.Equal(t, models.MutationResult{Exists: true, Applied: true}, res)

	loose, err := store.Cattle().Get(ctx, models.Lookup{ID: c.ID, ByID: true})
	require.NoError(t, err)
	assert.Nil(t, loose.LotID)

	n, err := store.Lots().Get(ctx, models.Lookup{ID: north.ID, ByID: true})
	require.NoError(t, err)
	assert.Equal(t, 0, n.TotalCattle)

	res, err = store.Cattle().Update(ctx, c.ID, models.CattlePatch{LotID: models.SetID(north.ID)})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	n, err = store.Lots().Get(ctx, models.Lookup{ID: north.ID, ByID: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n.TotalCattle)
}

func TestCattleRepository_UpdateRules(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")

	a, err := store.Cattle().Create(ctx, cattleInput(30, breed.ID, nil, "cow"))
	require.NoError(t, err)
	_, err = store.Cattle().Create(ctx, cattleInput(31, breed.ID, nil, "cow"))
	require.NoError(t, err)

	_, err = store.Cattle().Update(ctx, a.ID, models.CattlePatch{Number: ptr(int64(31))})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	_, err = store.Cattle().Update(ctx, a.ID, models.CattlePatch{BreedID: ptr(int64(404))})
	assert.ErrorIs(t, err, models.ErrReferenceNotFound)

	res, err := store.Cattle().Update(ctx, a.ID, models.CattlePatch{Number: ptr(int64(30)), QuarterlyWeight: ptr(310.0)})
	require.NoError(t, err)
	assert.True(t, res.Applied)

	got, err := store.Cattle().Get(ctx, models.Lookup{ID: a.ID, ByID: true})
	require.NoError(t, err)
	assert.Equal(t, "310", got.QuarterlyWeight.String())

	res, err = store.Cattle().Update(ctx, 999, models.CattlePatch{Number: ptr(int64(40))})
	require.NoError(t, err)
	assert.Equal(t, models.MutationResult{}, res)
}

func TestCattleRepository_ListPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	breed := createBreed(t, store, "Criollo")

	for i := int64(1); i <= 25; i++ {
		_, err := store.Cattle().Create(ctx, cattleInput(100+i, breed.ID, nil, "cow"))
		require.NoError(t, err)
	}

	page, err := store.Cattle().List(ctx, models.PageRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 25, page.TotalItems)
	require.Len(t, page.Items, 10)
	assert.Equal(t, int64(11), page.Items[0].ID)
	assert.Equal(t, int64(20), page.Items[9].ID)

	last, err := store.Cattle().List(ctx, models.PageRequest{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)

	beyond, err := store.Cattle().List(ctx, models.PageRequest{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}
