package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raxitsanghani/Nexura-Sports/internal/domain"
	apperrors "github.com/raxitsanghani/Nexura-Sports/pkg/errors"
)

func newCartService(repo *mockCartRepository, products *mockProductRepository) *CartService {
	return NewCartService(repo, products, newTestLogger())
}

func TestAddItem_SnapshotsCatalogFields(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 999, "10% OFF"), nil)
	repo.On("Get", ctx, "user-1").Return(&domain.Cart{UserID: "user-1"}, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).Return(nil)

	cart, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: 2, Color: "red"})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "Product prod-1", item.Name)
	assert.Equal(t, "prod-1.jpg", item.ImageURL)
	assert.Equal(t, "red", item.Color)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "10% OFF", item.DiscountLabel)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(999)))
}

func TestAddItem_MergesExistingQuantity(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	existing := &domain.Cart{
		UserID:  "user-1",
		Version: 3,
		Items: []domain.CartItem{
			{ProductID: "prod-1", Quantity: 1, UnitPrice: decimal.NewFromInt(999)},
		},
	}
	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 999, ""), nil)
	repo.On("Get", ctx, "user-1").Return(existing, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 3).Return(nil)

	cart, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItem_RetriesOnConflict(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 999, ""), nil)
	repo.On("Get", ctx, "user-1").Return(&domain.Cart{UserID: "user-1"}, nil).Once()
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).Return(apperrors.ErrConflict).Once()
	repo.On("Get", ctx, "user-1").Return(&domain.Cart{UserID: "user-1", Version: 1}, nil).Once()
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 1).Return(nil).Once()

	cart, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount())
	repo.AssertExpectations(t)
}

func TestAddItem_RepeatedConflictsReturnUnsavedCart(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 999, ""), nil)
	repo.On("Get", ctx, "user-1").Return(&domain.Cart{UserID: "user-1"}, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).Return(apperrors.ErrConflict)

	cart, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-1", cart.Items[0].ProductID)
	repo.AssertNumberOfCalls(t, "SaveIfVersion", saveRetries)
}

func TestAddItem_PersistFailureNotFatal(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "prod-1").Return(catalogProduct("prod-1", 999, ""), nil)
	repo.On("Get", ctx, "user-1").Return(&domain.Cart{UserID: "user-1"}, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).
		Return(errors.New("redis: connection refused"))

	cart, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	repo.AssertNumberOfCalls(t, "SaveIfVersion", 1)
}

func TestAddItem_QuantityBounds(t *testing.T) {
	svc := newCartService(new(mockCartRepository), new(mockProductRepository))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-1", Quantity: MaxQuantityPerItem + 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	products.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "SaveIfVersion", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_FullCartRejectsNewProduct(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	full := &domain.Cart{UserID: "user-1"}
	for i := 0; i < MaxItemsPerCart; i++ {
		full.Items = append(full.Items, domain.CartItem{
			ProductID: fmt.Sprintf("prod-%d", i),
			Quantity:  1,
		})
	}

	products.On("GetByID", ctx, "prod-new").Return(catalogProduct("prod-new", 10, ""), nil)
	repo.On("Get", ctx, "user-1").Return(full, nil)

	_, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-new", Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddItem_FullCartStillMergesExistingProduct(t *testing.T) {
	repo := new(mockCartRepository)
	products := new(mockProductRepository)
	svc := newCartService(repo, products)
	ctx := context.Background()

	full := &domain.Cart{UserID: "user-1"}
	for i := 0; i < MaxItemsPerCart; i++ {
		full.Items = append(full.Items, domain.CartItem{
			ProductID: fmt.Sprintf("prod-%d", i),
			Quantity:  1,
		})
	}

	products.On("GetByID", ctx, "prod-0").Return(catalogProduct("prod-0", 10, ""), nil)
	repo.On("Get", ctx, "user-1").Return(full, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).Return(nil)

	cart, err := svc.AddItem(ctx, "user-1", AddCartItemInput{ProductID: "prod-0", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestSetQuantity_ZeroRemovesItem(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newCartService(repo, new(mockProductRepository))
	ctx := context.Background()

	repo.On("Get", ctx, "user-1").Return(&domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: "prod-1", Quantity: 4}},
	}, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).Return(nil)

	cart, err := svc.SetQuantity(ctx, "user-1", "prod-1", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItem(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newCartService(repo, new(mockProductRepository))
	ctx := context.Background()

	repo.On("Get", ctx, "user-1").Return(&domain.Cart{
		UserID: "user-1",
		Items: []domain.CartItem{
			{ProductID: "prod-1", Quantity: 1},
			{ProductID: "prod-2", Quantity: 2},
		},
	}, nil)
	repo.On("SaveIfVersion", ctx, mock.AnythingOfType("*domain.Cart"), 0).Return(nil)

	cart, err := svc.RemoveItem(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-2", cart.Items[0].ProductID)
}

func TestClearCart(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newCartService(repo, new(mockProductRepository))
	ctx := context.Background()

	repo.On("Delete", ctx, "user-1").Return(nil)

	require.NoError(t, svc.ClearCart(ctx, "user-1"))
	repo.AssertExpectations(t)
}

func TestCartTotal(t *testing.T) {
	svc := newCartService(new(mockCartRepository), new(mockProductRepository))

	cart := &domain.Cart{Items: []domain.CartItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("49.50")},
	}}

	assert.True(t, svc.Total(cart).Equal(decimal.RequireFromString("249.50")))
}

func TestGetCart_RequiresUser(t *testing.T) {
	svc := newCartService(new(mockCartRepository), new(mockProductRepository))

	_, err := svc.GetCart(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
