package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veloara/go-storefront-api/internal/model"
)

type WishlistRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
	// AddItem is a no-op when the product is already wishlisted.
	AddItem(ctx context.Context, userID uuid.UUID, productID int64) error
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

func (r *pgWishlistRepo) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, added_at FROM wishlist_items WHERE user_id = $1 ORDER BY added_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	var items []model.WishlistItem
	for rows.Next() {
		var item model.WishlistItem
		if err := rows.Scan(&item.ProductID, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgWishlistRepo) AddItem(ctx context.Context, userID uuid.UUID, productID int64) error {
	query := `INSERT INTO wishlist_items (user_id, product_id, added_at)
			  VALUES ($1, $2, NOW())
			  ON CONFLICT (user_id, product_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgWishlistRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}
