package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	repository "github.com/tanmaydutta/ecommerce-core/internal/repositories"
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewOrderRepo(db), dbMock
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	repo, dbMock := setupOrderRepoTest(t)

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		OrderDate:   time.Now(),
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("19.98"),
		Items: []models.OrderItem{
			{
				ID:           uuid.New(),
				ProductID:    42,
				ProductName:  "Air Zoom",
				ProductBrand: "Nike",
				Quantity:     2,
				UnitPrice:    decimal.RequireFromString("9.99"),
			},
		},
	}
	order.Items[0].OrderID = order.ID

	dbMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(order.ID, order.UserID, order.OrderDate, order.Status, order.TotalAmount).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	dbMock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(order.Items[0].ID, order.ID, int64(42), "Air Zoom", "Nike", 2, order.Items[0].UnitPrice).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.False(t, order.CreatedAt.IsZero())
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestGetOrderByID_Repo(t *testing.T) {
	ctx := context.Background()

	selectOrder := regexp.QuoteMeta("SELECT id, user_id, order_date, status, total_amount, created_at")
	selectItems := regexp.QuoteMeta("SELECT id, order_id, product_id, product_name, product_brand, quantity, price")

	t.Run("Order With Snapshot Items", func(t *testing.T) {
		repo, dbMock := setupOrderRepoTest(t)
		orderID, userID := uuid.New(), uuid.New()
		now := time.Now()

		dbMock.ExpectQuery(selectOrder).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_date", "status", "total_amount", "created_at"}).
				AddRow(orderID.String(), userID.String(), now, "pending", "19.98", now))
		dbMock.ExpectQuery(selectItems).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "product_brand", "quantity", "price"}).
				AddRow(uuid.New().String(), orderID.String(), int64(42), "Air Zoom", "Nike", 2, "9.99"))

		order, err := repo.GetOrderByID(ctx, orderID)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Air Zoom", order.Items[0].ProductName)
		assert.Equal(t, "Nike", order.Items[0].ProductBrand)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		repo, dbMock := setupOrderRepoTest(t)
		orderID := uuid.New()

		dbMock.ExpectQuery(selectOrder).
			WithArgs(orderID).
			WillReturnError(sql.ErrNoRows)

		order, err := repo.GetOrderByID(ctx, orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestListOrdersByUser_Repo(t *testing.T) {
	ctx := context.Background()

	countPattern := regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE user_id = $1")

	t.Run("Empty History", func(t *testing.T) {
		repo, dbMock := setupOrderRepoTest(t)
		userID := uuid.New()

		dbMock.ExpectQuery(countPattern).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		dbMock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_date, status, total_amount, created_at")).
			WithArgs(userID, 10, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_date", "status", "total_amount", "created_at"}))

		orders, total, err := repo.ListOrdersByUser(ctx, userID, 1, 10)

		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.Zero(t, total)
	})

	t.Run("Paginated Page", func(t *testing.T) {
		repo, dbMock := setupOrderRepoTest(t)
		userID := uuid.New()
		orderID := uuid.New()
		now := time.Now()

		dbMock.ExpectQuery(countPattern).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
		dbMock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_date, status, total_amount, created_at")).
			WithArgs(userID, 10, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_date", "status", "total_amount", "created_at"}).
				AddRow(orderID.String(), userID.String(), now, "delivered", "5.00", now))
		dbMock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, product_id, product_name")).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "product_brand", "quantity", "price"}))

		orders, total, err := repo.ListOrdersByUser(ctx, userID, 2, 10)

		require.NoError(t, err)
		assert.Equal(t, 11, total)
		require.Len(t, orders, 1)
		assert.Equal(t, models.OrderStatusDelivered, orders[0].Status)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}
