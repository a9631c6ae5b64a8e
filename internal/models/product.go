package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int64           `json:"inventory"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Category    *Category       `json:"category,omitempty"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Brand       string          `json:"brand" validate:"required,max=100"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Inventory   int64           `json:"inventory" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=100"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Brand       *string          `json:"brand,omitempty" validate:"omitempty,max=100"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Inventory   *int64           `json:"inventory,omitempty" validate:"omitempty,gte=0"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
}

type ListProductsFilter struct {
	Category string
	Brand    string
	Name     string
}
