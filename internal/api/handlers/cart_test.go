package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tanmaydutta/ecommerce-core/internal/api/handlers"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	"github.com/tanmaydutta/ecommerce-core/internal/repositories/mocks"
	service "github.com/tanmaydutta/ecommerce-core/internal/services"
)

func setupCartHandlerTest(t *testing.T) (*handlers.CartHandler, *mocks.CartRepository, *mocks.ProductRepository) {
	t.Helper()

	cartRepo := mocks.NewCartRepository()
	productRepo := mocks.NewProductRepository()
	cartService := service.NewCartService(cartRepo, productRepo)

	return handlers.NewCartHandler(cartService), cartRepo, productRepo
}

func TestAddItemHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, cartRepo, productRepo := setupCartHandlerTest(t)
		userID := uuid.New()
		cartID := uuid.New()
		price := decimal.RequireFromString("9.99")

		productRepo.On("GetProductByID", mock.Anything, int64(42)).
			Return(&models.Product{ID: 42, Name: "Air Zoom", Price: price}, nil).Once()
		cartRepo.On("GetOrCreateCartByUserID", mock.Anything, userID).
			Return(&models.Cart{ID: cartID, UserID: userID}, false, nil).Once()
		cartRepo.On("AddItem", mock.Anything, cartID, int64(42), 2, mock.Anything).
			Return(&models.CartItem{}, nil).Once()
		cartRepo.On("GetCartByID", mock.Anything, cartID).Return(&models.Cart{
			ID:     cartID,
			UserID: userID,
			Items:  []models.CartItem{{CartID: cartID, ProductID: 42, Quantity: 2, UnitPrice: price}},
		}, nil).Once()

		req := authenticatedJSONRequest(http.MethodPost, "/api/v1/carts/items", userID, `{"product_id":42,"quantity":2}`)
		rec := httptest.NewRecorder()

		handler.AddItem()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Rejects Zero Quantity", func(t *testing.T) {
		handler, cartRepo, _ := setupCartHandlerTest(t)
		userID := uuid.New()

		req := authenticatedJSONRequest(http.MethodPost, "/api/v1/carts/items", userID, `{"product_id":42,"quantity":0}`)
		rec := httptest.NewRecorder()

		handler.AddItem()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		cartRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unauthenticated Returns 401", func(t *testing.T) {
		handler, _, _ := setupCartHandlerTest(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/items", strings.NewReader(`{"product_id":42,"quantity":2}`))
		rec := httptest.NewRecorder()

		handler.AddItem()(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	t.Run("Zero Quantity Removes The Line", func(t *testing.T) {
		handler, cartRepo, _ := setupCartHandlerTest(t)
		cartID, itemID := uuid.New(), uuid.New()

		cartRepo.On("RemoveItem", mock.Anything, cartID, itemID).Return(nil).Once()
		cartRepo.On("GetCartByID", mock.Anything, cartID).Return(&models.Cart{ID: cartID}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/v1/carts/items", strings.NewReader(`{"quantity":0}`))
		req.SetPathValue("cartId", cartID.String())
		req.SetPathValue("itemId", itemID.String())
		rec := httptest.NewRecorder()

		handler.UpdateQuantity()(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Invalid Cart ID", func(t *testing.T) {
		handler, _, _ := setupCartHandlerTest(t)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/carts/items", strings.NewReader(`{"quantity":1}`))
		req.SetPathValue("cartId", "nope")
		req.SetPathValue("itemId", uuid.New().String())
		rec := httptest.NewRecorder()

		handler.UpdateQuantity()(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetCartHandler(t *testing.T) {
	handler, cartRepo, _ := setupCartHandlerTest(t)
	userID := uuid.New()
	cartID := uuid.New()

	cartRepo.On("GetCartByUserID", mock.Anything, userID).Return(&models.Cart{
		ID:     cartID,
		UserID: userID,
		Items: []models.CartItem{
			{CartID: cartID, ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}, nil).Once()

	rec := httptest.NewRecorder()
	handler.GetCart()(rec, authenticatedRequest(http.MethodGet, "/api/v1/carts", userID))

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	payload, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10", payload["total"], "cart total is serialized as a decimal string")
}
