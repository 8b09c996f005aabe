package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veloara/go-storefront-api/internal/model"
)

const orderColumns = `id, user_id, total_amount, ship_full_name, ship_phone, ship_line1,
	ship_line2, ship_city, ship_state, ship_pincode, status, order_date, updated_at`

type OrderRepository interface {
	// CreateWithCartClear inserts the order and its item snapshots and empties
	// the caller's cart in a single transaction.
	CreateWithCartClear(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *pgOrderRepo) CreateWithCartClear(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	addr := order.ShippingAddress
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, total_amount, ship_full_name, ship_phone, ship_line1,
			ship_line2, ship_city, ship_state, ship_pincode, status, order_date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		 RETURNING order_date`,
		order.ID, order.UserID, order.TotalAmount, addr.FullName, addr.Phone,
		addr.AddressLine1, addr.AddressLine2, addr.City, addr.State, addr.Pincode,
		order.Status,
	).Scan(&order.OrderDate)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, price, quantity, image)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC`, userID)
}

func (r *pgOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC`)
}

func (r *pgOrderRepo) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *pgOrderRepo) loadItems(ctx context.Context, order *model.Order) error {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, name, price, quantity, image FROM order_items WHERE order_id = $1 ORDER BY id`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	order := &model.Order{}
	addr := &order.ShippingAddress
	err := row.Scan(
		&order.ID, &order.UserID, &order.TotalAmount, &addr.FullName, &addr.Phone,
		&addr.AddressLine1, &addr.AddressLine2, &addr.City, &addr.State, &addr.Pincode,
		&order.Status, &order.OrderDate, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
