package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tanmaydutta/ecommerce-core/internal/api/middleware"
	"github.com/tanmaydutta/ecommerce-core/internal/errors"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	repository "github.com/tanmaydutta/ecommerce-core/internal/repositories"
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCartByID(ctx, cartID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

func (s *CartService) GetCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

// AddItem puts a product into the user's cart, creating the cart on first
// add. The line's unit price is snapshotted from the product's current price;
// adding the same product again only raises the quantity of the existing
// line, keeping the original snapshot.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	logger := middleware.LoggerFromContext(ctx)

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	cart, created, err := s.cartRepo.GetOrCreateCartByUserID(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to prepare cart").WithError(err)
	}

	if created {
		logger.Info("Created cart on first add",
			slog.String("cart_id", cart.ID.String()),
			slog.String("user_id", userID.String()),
		)
	}

	if _, err := s.cartRepo.AddItem(ctx, cart.ID, product.ID, req.Quantity, product.Price); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, cart.ID)
}

// UpdateQuantity sets a line's quantity; zero removes the line, a line with
// quantity zero is never stored.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	var err error

	if quantity == 0 {
		err = s.cartRepo.RemoveItem(ctx, cartID, itemID)
	} else {
		err = s.cartRepo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	}

	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.GetCart(ctx, cartID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, cartID, itemID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return s.GetCart(ctx, cartID)
}

func (s *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if err := s.cartRepo.ClearCart(ctx, cartID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Cart not found").WithError(err)
		}

		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}
