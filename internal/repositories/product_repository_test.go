package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	repository "github.com/tanmaydutta/ecommerce-core/internal/repositories"
)

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewProductRepo(db), dbMock
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()

	updatePattern := regexp.QuoteMeta("UPDATE products")
	fallbackPattern := regexp.QuoteMeta("SELECT inventory FROM products WHERE id = $1")

	t.Run("Reserves Stock And Returns Snapshot Fields", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectQuery(updatePattern).
			WithArgs(int64(42), 2).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "brand", "price", "inventory"}).
				AddRow(int64(42), "Air Zoom", "Nike", "9.99", int64(3)))

		product, err := repo.DecrementStock(ctx, 42, 2)

		require.NoError(t, err)
		assert.Equal(t, "Air Zoom", product.Name)
		assert.Equal(t, "Nike", product.Brand)
		assert.Equal(t, int64(3), product.Inventory)
		assert.True(t, decimal.RequireFromString("9.99").Equal(product.Price))
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Insufficient Stock", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		// Guard rejects the update; the follow-up read finds the product
		// with too little stock.
		dbMock.ExpectQuery(updatePattern).
			WithArgs(int64(42), 10).
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery(fallbackPattern).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"inventory"}).AddRow(int64(3)))

		product, err := repo.DecrementStock(ctx, 42, 10)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Product Missing", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectQuery(updatePattern).
			WithArgs(int64(404), 1).
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery(fallbackPattern).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		product, err := repo.DecrementStock(ctx, 404, 1)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestGetOrCreateCategory(t *testing.T) {
	ctx := context.Background()

	selectPattern := regexp.QuoteMeta("SELECT id, name FROM categories WHERE name = $1")
	insertPattern := regexp.QuoteMeta("INSERT INTO categories")

	t.Run("Existing Category", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectQuery(selectPattern).
			WithArgs("electronics").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(3), "electronics"))

		category, created, err := repo.GetOrCreateCategory(ctx, "electronics")

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(3), category.ID)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Creates Missing Category", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectQuery(selectPattern).
			WithArgs("books").
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectQuery(insertPattern).
			WithArgs("books").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(9), "books"))

		category, created, err := repo.GetOrCreateCategory(ctx, "books")

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "books", category.Name)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestGetProductByID_Repo(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)
		now := time.Now()

		dbMock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.category_id, p.name")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "category_id", "name", "brand", "description", "price",
				"inventory", "created_at", "updated_at", "c_id", "c_name",
			}).AddRow(int64(1), int64(3), "Mug", "Acme", "A mug", "4.50", int64(7), now, now, int64(3), "kitchen"))

		product, err := repo.GetProductByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Mug", product.Name)
		require.NotNil(t, product.Category)
		assert.Equal(t, "kitchen", product.Category.Name)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.category_id, p.name")).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		product, err := repo.GetProductByID(ctx, 404)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestDeleteProduct_Repo(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteProduct(ctx, 5))
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Missing Row Maps To ErrNoRows", func(t *testing.T) {
		repo, dbMock := setupProductRepoTest(t)

		dbMock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteProduct(ctx, 404), sql.ErrNoRows)
	})
}

func TestListProducts_Repo(t *testing.T) {
	ctx := context.Background()
	repo, dbMock := setupProductRepoTest(t)
	now := time.Now()

	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WithArgs("Nike").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT p.id, p.category_id, p.name")).
		WithArgs("Nike", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "category_id", "name", "brand", "description", "price",
			"inventory", "created_at", "updated_at", "c_id", "c_name",
		}).AddRow(int64(1), int64(2), "Air Zoom", "Nike", "", "99.99", int64(4), now, now, int64(2), "shoes"))

	products, total, err := repo.ListProducts(ctx, models.ListProductsFilter{Brand: "Nike"}, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Air Zoom", products[0].Name)
	require.NoError(t, dbMock.ExpectationsWereMet())
}
