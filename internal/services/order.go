package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaydutta/ecommerce-core/internal/api/middleware"
	"github.com/tanmaydutta/ecommerce-core/internal/errors"
	"github.com/tanmaydutta/ecommerce-core/internal/metrics"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	repository "github.com/tanmaydutta/ecommerce-core/internal/repositories"
	stderrors "errors"
)

// TxBeginner opens the transaction a checkout runs in. Satisfied by
// *repository.Repository.
type TxBeginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

type OrderService struct {
	db          TxBeginner
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewOrderService(db TxBeginner, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// PlaceOrder converts the user's cart into a durable order. Loading the cart,
// reserving inventory and persisting the order all run in one transaction, so
// a failed checkout leaves inventory and cart exactly as they were. The cart
// is cleared right after commit; if that last step fails the order stands and
// the caller gets it back together with a CLEANUP_FAILED error for
// reconciliation.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	logger := middleware.LoggerFromContext(ctx)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		metrics.RecordCheckout("error")

		return nil, errors.DatabaseError("Failed to start checkout").WithError(err)
	}

	// no-op once the transaction is committed
	defer tx.Rollback()

	cartRepo := s.cartRepo.WithTx(tx)

	cart, err := cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			metrics.RecordCheckout("cart_not_found")

			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}

		metrics.RecordCheckout("error")

		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		metrics.RecordCheckout("empty_cart")

		return nil, errors.BadRequestError("Cannot place an order with an empty cart")
	}

	productRepo := s.productRepo.WithTx(tx)

	orderID := uuid.New()
	totalAmount := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(cart.Items))

	for _, line := range cart.Items {
		product, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			switch {
			case stderrors.Is(err, sql.ErrNoRows):
				metrics.RecordCheckout("product_not_found")

				return nil, errors.NotFoundError("Product not found").WithError(err).
					WithDetail("product " + formatInt(line.ProductID) + " is no longer available")
			case stderrors.Is(err, repository.ErrInsufficientStock):
				metrics.RecordCheckout("insufficient_stock")

				return nil, errors.InsufficientStockError("Insufficient stock").WithError(err).
					WithDetail("product " + formatInt(line.ProductID) + " has fewer than " + formatInt(int64(line.Quantity)) + " units left")
			default:
				metrics.RecordCheckout("error")

				return nil, errors.DatabaseError("Failed to reserve inventory").WithError(err)
			}
		}

		// product name and brand are frozen here; the unit price was frozen
		// when the line was added to the cart
		orderItems = append(orderItems, models.OrderItem{
			ID:           uuid.New(),
			OrderID:      orderID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductBrand: product.Brand,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
		})

		totalAmount = totalAmount.Add(line.TotalPrice())
	}

	order := &models.Order{
		ID:          orderID,
		UserID:      userID,
		OrderDate:   time.Now(),
		Status:      models.OrderStatusPending,
		TotalAmount: totalAmount,
		Items:       orderItems,
	}

	if err := s.orderRepo.WithTx(tx).CreateOrder(ctx, order); err != nil {
		metrics.RecordCheckout("error")

		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordCheckout("error")

		return nil, errors.DatabaseError("Failed to commit checkout").WithError(err)
	}

	// The order is durable from this point on. A failed cart clear is a
	// degraded success, never a checkout failure.
	if err := s.cartRepo.ClearCart(ctx, cart.ID); err != nil {
		metrics.RecordCheckout("cleanup_failed")
		logger.Warn("Order committed but cart clear failed",
			slog.String("order_id", order.ID.String()),
			slog.String("cart_id", cart.ID.String()),
			slog.String("error", err.Error()),
		)

		return order, errors.CleanupFailedError("Order placed but cart was not cleared").
			WithError(err).WithDetail("cart " + cart.ID.String() + " needs reconciliation")
	}

	metrics.RecordCheckout("success")

	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	if orders == nil {
		orders = []models.Order{}
	}

	return orders, total, nil
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
