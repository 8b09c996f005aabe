package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veloara/go-storefront-api/internal/model"
)

type CartRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	// AddItem upserts atomically: a concurrent add for the same product
	// increments server-side instead of racing on a read-modify-write.
	AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Replace(ctx context.Context, userID uuid.UUID, items []model.CartItem) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) List(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgCartRepo) AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) error {
	query := `INSERT INTO cart_items (user_id, product_id, quantity)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_id, product_id)
			  DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := r.pool.Exec(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID int64, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Replace rewrites the whole cart in one transaction, preserving the order of
// the given items. Used by the dedupe repair.
func (r *pgCartRepo) Replace(ctx context.Context, userID uuid.UUID, items []model.CartItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	for _, item := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)`,
			userID, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return tx.Commit(ctx)
}
