package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appErrors "github.com/tanmaydutta/ecommerce-core/internal/errors"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	"github.com/tanmaydutta/ecommerce-core/internal/repositories/mocks"
	service "github.com/tanmaydutta/ecommerce-core/internal/services"
)

func setupCartTest(t *testing.T) (*service.CartService, *mocks.CartRepository, *mocks.ProductRepository) {
	t.Helper()

	cartRepo := mocks.NewCartRepository()
	productRepo := mocks.NewProductRepository()

	return service.NewCartService(cartRepo, productRepo), cartRepo, productRepo
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Cart On First Add", func(t *testing.T) {
		cartService, cartRepo, productRepo := setupCartTest(t)
		userID := uuid.New()
		cartID := uuid.New()

		product := &models.Product{
			ID:    42,
			Name:  "Air Zoom",
			Brand: "Nike",
			Price: decimal.RequireFromString("9.99"),
		}

		productRepo.On("GetProductByID", ctx, int64(42)).Return(product, nil).Once()
		cartRepo.On("GetOrCreateCartByUserID", ctx, userID).
			Return(&models.Cart{ID: cartID, UserID: userID}, true, nil).Once()
		cartRepo.On("AddItem", ctx, cartID, int64(42), 2, mock.MatchedBy(func(p decimal.Decimal) bool {
			return p.Equal(decimal.RequireFromString("9.99"))
		})).Return(&models.CartItem{}, nil).Once()
		cartRepo.On("GetCartByID", ctx, cartID).Return(&models.Cart{
			ID:     cartID,
			UserID: userID,
			Items: []models.CartItem{
				{CartID: cartID, ProductID: 42, Quantity: 2, UnitPrice: product.Price},
			},
		}, nil).Once()

		cart, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: 42, Quantity: 2})

		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.True(t, decimal.RequireFromString("19.98").Equal(cart.Total()))

		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		cartService, cartRepo, productRepo := setupCartTest(t)
		userID := uuid.New()

		productRepo.On("GetProductByID", ctx, int64(404)).Return(nil, sql.ErrNoRows).Once()

		cart, err := cartService.AddItem(ctx, userID, &models.AddItemRequest{ProductID: 404, Quantity: 1})

		require.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeNotFound))

		cartRepo.AssertNotCalled(t, "GetOrCreateCartByUserID", mock.Anything, mock.Anything)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Sets New Quantity", func(t *testing.T) {
		cartService, cartRepo, _ := setupCartTest(t)
		cartID, itemID := uuid.New(), uuid.New()

		cartRepo.On("UpdateItemQuantity", ctx, cartID, itemID, 5).Return(nil).Once()
		cartRepo.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID}, nil).Once()

		_, err := cartService.UpdateQuantity(ctx, cartID, itemID, 5)

		require.NoError(t, err)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Zero Removes The Line", func(t *testing.T) {
		cartService, cartRepo, _ := setupCartTest(t)
		cartID, itemID := uuid.New(), uuid.New()

		cartRepo.On("RemoveItem", ctx, cartID, itemID).Return(nil).Once()
		cartRepo.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID}, nil).Once()

		_, err := cartService.UpdateQuantity(ctx, cartID, itemID, 0)

		require.NoError(t, err)
		cartRepo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Line Not In Cart", func(t *testing.T) {
		cartService, cartRepo, _ := setupCartTest(t)
		cartID, itemID := uuid.New(), uuid.New()

		cartRepo.On("UpdateItemQuantity", ctx, cartID, itemID, 2).Return(sql.ErrNoRows).Once()

		cart, err := cartService.UpdateQuantity(ctx, cartID, itemID, 2)

		require.Error(t, err)
		assert.Nil(t, cart)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeNotFound))
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	cartService, cartRepo, _ := setupCartTest(t)
	cartID, itemID := uuid.New(), uuid.New()

	cartRepo.On("RemoveItem", ctx, cartID, itemID).Return(sql.ErrNoRows).Once()

	cart, err := cartService.RemoveItem(ctx, cartID, itemID)

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeNotFound))
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cartService, cartRepo, _ := setupCartTest(t)
		cartID := uuid.New()

		cartRepo.On("ClearCart", ctx, cartID).Return(nil).Once()

		require.NoError(t, cartService.ClearCart(ctx, cartID))
		cartRepo.AssertExpectations(t)
	})

	t.Run("Missing Cart", func(t *testing.T) {
		cartService, cartRepo, _ := setupCartTest(t)
		cartID := uuid.New()

		cartRepo.On("ClearCart", ctx, cartID).Return(sql.ErrNoRows).Once()

		err := cartService.ClearCart(ctx, cartID)

		require.Error(t, err)
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeNotFound))
	})
}

func TestGetCartByUser(t *testing.T) {
	ctx := context.Background()
	cartService, cartRepo, _ := setupCartTest(t)
	userID := uuid.New()

	cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

	cart, err := cartService.GetCartByUser(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, cart)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeNotFound))
}
