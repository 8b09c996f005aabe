package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/reconcile"
	"github.com/veloara/go-storefront-api/internal/repository"
)

var (
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	return s.cartRepo.List(ctx, userID)
}

// AddItem increments the quantity when the product is already carted,
// otherwise appends a new entry. Quantity defaults to 1.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) ([]model.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if err := s.cartRepo.AddItem(ctx, userID, productID, quantity); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return s.cartRepo.List(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int) ([]model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return s.cartRepo.List(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) ([]model.CartItem, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return s.cartRepo.List(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}

// Dedupe is a repair operation for carts carried over from the legacy store:
// duplicate entries for one product are collapsed into a single entry summing
// their quantities, keyed by first occurrence. Running it twice gives the
// same result as once.
func (s *CartService) Dedupe(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	deduped := CollapseCart(items)
	if len(deduped) == len(items) {
		return items, nil
	}
	if err := s.cartRepo.Replace(ctx, userID, deduped); err != nil {
		return nil, fmt.Errorf("replace cart: %w", err)
	}
	return deduped, nil
}

// CollapseCart merges duplicate product entries, summing quantities. Order of
// first occurrence is preserved.
func CollapseCart(items []model.CartItem) []model.CartItem {
	index := make(map[int64]int, len(items))
	deduped := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if i, seen := index[item.ProductID]; seen {
			deduped[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(deduped)
		deduped = append(deduped, item)
	}
	return deduped
}

// DetailedCart joins the cart with the active catalog, attaching product data
// and quantities. Entries pointing at products no longer in the catalog come
// back in Orphaned.
func (s *CartService) DetailedCart(ctx context.Context, userID uuid.UUID) (reconcile.Result, error) {
	items, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("list cart items: %w", err)
	}
	catalog, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("list products: %w", err)
	}
	return reconcile.MergeCart(reconcile.FromCartItems(items), catalog), nil
}
