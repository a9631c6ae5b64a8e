package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tanmaydutta/ecommerce-core/internal/models"
	"github.com/tanmaydutta/ecommerce-core/internal/utils"
)

// ErrInsufficientStock is returned by DecrementStock when the product exists
// but its inventory is below the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter models.ListProductsFilter, page, size int) ([]models.Product, int, error)
	GetOrCreateCategory(ctx context.Context, name string) (*models.Category, bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) (*models.Product, error)
	WithTx(tx *sql.Tx) ProductRepository
}

type productRepository struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *sql.Tx) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (category_id, name, brand, description, price, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowContext(dbCtx, query, product.CategoryID, product.Name, product.Brand, product.Description, product.Price, product.Inventory).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.category_id, p.name, p.brand, p.description, p.price,
		       p.inventory, p.created_at, p.updated_at, c.id, c.name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`

	product := &models.Product{}

	var category models.Category

	err := r.db.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.CategoryID, &product.Name, &product.Brand,
		&product.Description, &product.Price, &product.Inventory, &product.CreatedAt, &product.UpdatedAt,
		&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	product.Category = &category

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET category_id = $1, name = $2, brand = $3, description = $4, price = $5, inventory = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(dbCtx, query, product.CategoryID, product.Name, product.Brand, product.Description,
		product.Price, product.Inventory, product.ID).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}

		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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

func (r *productRepository) ListProducts(ctx context.Context, filter models.ListProductsFilter, page, size int) ([]models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ` WHERE 1=1`

	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND c.name = $%d", len(args))
	}

	if filter.Brand != "" {
		args = append(args, filter.Brand)
		where += fmt.Sprintf(" AND p.brand = $%d", len(args))
	}

	if filter.Name != "" {
		args = append(args, filter.Name)
		where += fmt.Sprintf(" AND p.name = $%d", len(args))
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM products p LEFT JOIN categories c ON p.category_id = c.id` + where
	if err := r.db.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * size
	args = append(args, size, offset)

	query := `
		SELECT p.id, p.category_id, p.name, p.brand, p.description, p.price,
		       p.inventory, p.created_at, p.updated_at, c.id, c.name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id` + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var product models.Product

		var category models.Category

		err := rows.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Brand, &product.Description,
			&product.Price, &product.Inventory, &product.CreatedAt, &product.UpdatedAt, &category.ID, &category.Name)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}

		product.Category = &category
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetOrCreateCategory looks the category up by name and inserts it when
// missing. The second return value reports whether a new row was created.
func (r *productRepository) GetOrCreateCategory(ctx context.Context, name string) (*models.Category, bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category := &models.Category{}

	err := r.db.QueryRowContext(dbCtx, `SELECT id, name FROM categories WHERE name = $1`, name).
		Scan(&category.ID, &category.Name)
	if err == nil {
		return category, false, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to look up category: %w", err)
	}

	// ON CONFLICT keeps this safe against a concurrent insert of the same name.
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`

	if err := r.db.QueryRowContext(dbCtx, query, name).Scan(&category.ID, &category.Name); err != nil {
		return nil, false, fmt.Errorf("failed to create category: %w", err)
	}

	return category, true, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(dbCtx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	defer rows.Close()

	var categories []models.Category

	for rows.Next() {
		var category models.Category

		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// DecrementStock subtracts quantity from the product's inventory in a single
// guarded UPDATE. The guard doubles as the floor check and, under read
// committed, as the per-row serialization point between concurrent checkouts:
// whichever transaction loses the row lock re-evaluates the guard against the
// committed inventory. Returns sql.ErrNoRows when the product does not exist
// and ErrInsufficientStock when the guard fails.
func (r *productRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET inventory = inventory - $2, updated_at = NOW()
		WHERE id = $1 AND inventory >= $2
		RETURNING id, name, brand, price, inventory
	`

	product := &models.Product{}

	err := r.db.QueryRowContext(dbCtx, query, productID, quantity).
		Scan(&product.ID, &product.Name, &product.Brand, &product.Price, &product.Inventory)
	if err == nil {
		return product, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// The guard rejected the update; find out whether the product is missing
	// or just short on stock.
	var inventory int64

	err = r.db.QueryRowContext(dbCtx, `SELECT inventory FROM products WHERE id = $1`, productID).Scan(&inventory)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}

		return nil, fmt.Errorf("failed to check product stock: %w", err)
	}

	return nil, ErrInsufficientStock
}
