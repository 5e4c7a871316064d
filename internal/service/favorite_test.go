package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

func newFavoriteService(repo *mockFavoriteRepository, products *mockProductRepository) *FavoriteService {
	return NewFavoriteService(repo, products, newTestLogger())
}

func TestFavoriteAdd(t *testing.T) {
	repo := new(mockFavoriteRepository)
	products := new(mockProductRepository)
	svc := newFavoriteService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 100, ""), nil)
	repo.On("Add", ctx, "user-1", "prod-1").Return(nil)

	require.NoError(t, svc.Add(ctx, "user-1", "prod-1"))
	repo.AssertExpectations(t)
}

func TestFavoriteAdd_UnknownProduct(t *testing.T) {
	repo := new(mockFavoriteRepository)
	products := new(mockProductRepository)
	svc := newFavoriteService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	err := svc.Add(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteRemove_NotFound(t *testing.T) {
	repo := new(mockFavoriteRepository)
	svc := newFavoriteService(repo, new(mockProductRepository))
	ctx := context.Background()

	repo.On("Remove", ctx, "user-1", "prod-1").Return(apperrors.ErrNotFound)

	err := svc.Remove(ctx, "user-1", "prod-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFavoriteList_ResolvesProducts(t *testing.T) {
	repo := new(mockFavoriteRepository)
	products := new(mockProductRepository)
	svc := newFavoriteService(repo, products)
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return([]domain.Favorite{
		{UserID: "user-1", ProductID: "prod-1"},
		{UserID: "user-1", ProductID: "prod-2"},
	}, nil)
	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 100, ""), nil)
	products.On("GetByID", ctx, "prod-2").Return(catalogProduct("prod-2", 200, ""), nil)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Order follows the stored favorites regardless of lookup completion
	// order.
	assert.Equal(t, "prod-1", list[0].Favorite.ProductID)
	require.NotNil(t, list[0].Product)
	assert.Equal(t, "Product prod-1", list[0].Product.Name)
	require.NotNil(t, list[1].Product)
	assert.Equal(t, "Product prod-2", list[1].Product.Name)
}

func TestFavoriteList_PartialOnLookupFailure(t *testing.T) {
	repo := new(mockFavoriteRepository)
	products := new(mockProductRepository)
	svc := newFavoriteService(repo, products)
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return([]domain.Favorite{
		{UserID: "user-1", ProductID: "prod-1"},
		{UserID: "user-1", ProductID: "prod-gone"},
	}, nil)
	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 100, ""), nil)
	products.On("GetByID", ctx, "prod-gone").Return(nil, apperrors.ErrNotFound)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.NotNil(t, list[0].Product)
	assert.Nil(t, list[1].Product)
	assert.Equal(t, "prod-gone", list[1].Favorite.ProductID)
}

func TestFavoriteList_Empty(t *testing.T) {
	repo := new(mockFavoriteRepository)
	svc := newFavoriteService(repo, new(mockProductRepository))
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return([]domain.Favorite{}, nil)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
