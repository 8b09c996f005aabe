package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBadPriceFilter  = errors.New("invalid price filter")
)

const (
	productCacheTTL  = 60 * time.Second
	catalogCacheKey  = "products:active"
	productCacheBase = "product:"
)

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	product := &model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Stock:        req.Stock,
		Image:        req.Image,
		Brand:        req.Brand,
		Rating:       req.Rating,
		Discount:     req.Discount,
		IsFeatured:   req.IsFeatured,
		IsActive:     active,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidateCatalogCache(ctx)
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	cacheKey := fmt.Sprintf("%s%d", productCacheBase, id)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := ToProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

func (s *ProductService) ListActive(ctx context.Context) ([]dto.ProductResponse, error) {
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, catalogCacheKey).Result(); err == nil {
			var items []dto.ProductResponse
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		}
	}

	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(items); err == nil {
			s.redisClient.Set(ctx, catalogCacheKey, data, productCacheTTL)
		}
	}
	return items, nil
}

func (s *ProductService) Search(ctx context.Context, req dto.SearchProductsRequest) ([]dto.ProductResponse, error) {
	params := repository.ProductSearch{
		Query:    req.Query,
		Category: req.Category,
		Sort:     req.Sort,
	}
	var err error
	if params.MinPrice, err = parsePrice(req.MinPrice); err != nil {
		return nil, err
	}
	if params.MaxPrice, err = parsePrice(req.MaxPrice); err != nil {
		return nil, err
	}

	products, err := s.productRepo.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}
	return items, nil
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, ErrBadPriceFilter
	}
	return &d, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id int64) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, fmt.Sprintf("%s%d", productCacheBase, id), catalogCacheKey)
	}
}

func (s *ProductService) invalidateCatalogCache(ctx context.Context) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, catalogCacheKey)
	}
}

func ToProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		FinalPrice:   p.FinalPrice(),
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Stock:        p.Stock,
		Image:        p.Image,
		Brand:        p.Brand,
		Rating:       p.Rating,
		Discount:     p.Discount,
		IsFeatured:   p.IsFeatured,
		IsActive:     p.IsActive,
		IsAvailable:  p.Available(),
	}
}
