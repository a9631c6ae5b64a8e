package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	"github.com/tanmaydutta/ecommerce-core/internal/utils"
)

type CartRepository interface {
	GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetOrCreateCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error)
	AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int, unitPrice decimal.Decimal) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, cartID uuid.UUID) error
	WithTx(tx *sql.Tx) CartRepository
}

type cartRepository struct {
	db DBTX
}

func NewCartRepo(db DBTX) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *sql.Tx) CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	return r.getCart(ctx, `WHERE id = $1`, cartID)
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return r.getCart(ctx, `WHERE user_id = $1`, userID)
}

func (r *cartRepository) getCart(ctx context.Context, where string, arg any) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cart := &models.Cart{}

	query := `SELECT id, user_id, created_at, updated_at FROM carts ` + where

	err := r.db.QueryRowContext(dbCtx, query, arg).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	items, err := r.listItems(dbCtx, cart.ID)
	if err != nil {
		return nil, err
	}

	cart.Items = items

	return cart, nil
}

func (r *cartRepository) listItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, unit_price
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	defer rows.Close()

	var items []models.CartItem

	for rows.Next() {
		var item models.CartItem

		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

// GetOrCreateCartByUserID fetches the user's active cart, creating one when
// none exists. The second return value reports whether a new cart was created.
func (r *cartRepository) GetOrCreateCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, bool, error) {
	cart, err := r.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, false, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// The unique constraint on user_id turns a concurrent first-add into an
	// update of the same row instead of a second cart.
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at
	`

	cart = &models.Cart{}

	err = r.db.QueryRowContext(dbCtx, query, uuid.New(), userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, true, nil
}

// AddItem upserts a line for the product: an existing line has its quantity
// increased, a new line snapshots the given unit price.
func (r *cartRepository) AddItem(ctx context.Context, cartID uuid.UUID, productID int64, quantity int, unitPrice decimal.Decimal) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, product_id, quantity, unit_price
	`

	item := &models.CartItem{}

	err := r.db.QueryRowContext(dbCtx, query, uuid.New(), cartID, productID, quantity, unitPrice).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`

	result, err := r.db.ExecContext(dbCtx, query, cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ClearCart deletes the cart's lines and then the cart row itself. A missing
// cart is an error: checkout clears exactly once, while the cart is still
// known-present.
func (r *cartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	result, err := r.db.ExecContext(dbCtx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
