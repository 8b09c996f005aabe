package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/repository"
)

var ErrWishlistItemNotFound = errors.New("item not found in wishlist")

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	return s.wishlistRepo.List(ctx, userID)
}

// AddItem is a no-op when the product is already wishlisted.
func (s *WishlistService) AddItem(ctx context.Context, userID uuid.UUID, productID int64) ([]model.WishlistItem, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}
	return s.wishlistRepo.List(ctx, userID)
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) ([]model.WishlistItem, error) {
	if err := s.wishlistRepo.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, fmt.Errorf("remove wishlist item: %w", err)
	}
	return s.wishlistRepo.List(ctx, userID)
}

func (s *WishlistService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.wishlistRepo.Clear(ctx, userID)
}
