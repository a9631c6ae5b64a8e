package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/tanmaydutta/ecommerce-core/internal/api/middleware"
	"github.com/tanmaydutta/ecommerce-core/internal/cache"
	"github.com/tanmaydutta/ecommerce-core/internal/config"
	"github.com/tanmaydutta/ecommerce-core/internal/errors"
	"github.com/tanmaydutta/ecommerce-core/internal/models"
	repository "github.com/tanmaydutta/ecommerce-core/internal/repositories"
)

type ProductService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	cacheCfg *config.CacheConfig
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache, cacheCfg *config.CacheConfig) *ProductService {
	return &ProductService{repo: repo, cache: cache, cacheCfg: cacheCfg}
}

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	category, created, err := s.repo.GetOrCreateCategory(ctx, req.Category)
	if err != nil {
		return nil, errors.DatabaseError("Failed to resolve category").WithError(err)
	}

	if created {
		logger.Info("Created category", slog.String("category", category.Name))
	}

	product := &models.Product{
		CategoryID:  category.ID,
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Inventory:   req.Inventory,
		Category:    category,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProductByID reads through the cache; a miss falls back to the database
// and repopulates the entry.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	var cached models.Product

	if s.cache != nil {
		found, err := s.cache.Get(ctx, productCacheKey(id), &cached)
		if err != nil {
			logger.Warn("Product cache read failed", slog.String("error", err.Error()))
		} else if found {
			return &cached, nil
		}
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, productCacheKey(id), product, s.cacheCfg.ProductTTL); err != nil {
			logger.Warn("Product cache write failed", slog.String("error", err.Error()))
		}
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Brand != nil {
		product.Brand = *req.Brand
	}

	if req.Description != nil {
		product.Description = *req.Description
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}

	if req.Category != nil {
		category, _, err := s.repo.GetOrCreateCategory(ctx, *req.Category)
		if err != nil {
			return nil, errors.DatabaseError("Failed to resolve category").WithError(err)
		}

		product.CategoryID = category.ID
		product.Category = category
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Product not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter models.ListProductsFilter, page, size int) ([]models.Product, int, error) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 10
	}

	products, total, err := s.repo.ListProducts(ctx, filter, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list products").WithError(err)
	}

	if products == nil {
		products = []models.Product{}
	}

	return products, total, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list categories").WithError(err)
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, productCacheKey(id)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache invalidation failed",
			slog.String("error", err.Error()))
	}
}
