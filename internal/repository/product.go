package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/veloara/go-storefront-api/internal/model"
)

const productColumns = `id, name, description, price, category_id, category_name, stock,
	image, brand, rating, discount, is_featured, is_active, created_at, updated_at`

type ProductSearch struct {
	Query    string
	Category int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, params ProductSearch) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
		&p.Stock, &p.Image, &p.Brand, &p.Rating, &p.Discount, &p.IsFeatured,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products (name, description, price, category_id, category_name, stock,
				image, brand, rating, discount, is_featured, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.CategoryID,
		product.CategoryName, product.Stock, product.Image, product.Brand,
		product.Rating, product.Discount, product.IsFeatured, product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *pgProductRepo) Search(ctx context.Context, params ProductSearch) ([]model.Product, error) {
	var (
		conds = []string{"is_active"}
		args  []any
	)
	if params.Query != "" {
		args = append(args, params.Query)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", len(args), len(args)))
	}
	if params.Category != 0 {
		args = append(args, params.Category)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if params.MinPrice != nil {
		args = append(args, *params.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if params.MaxPrice != nil {
		args = append(args, *params.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	orderBy := "id"
	switch params.Sort {
	case "price-asc":
		orderBy = "price ASC"
	case "price-desc":
		orderBy = "price DESC"
	case "rating":
		orderBy = "rating DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s`,
		productColumns, strings.Join(conds, " AND "), orderBy)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET name=$2, description=$3, price=$4, category_id=$5,
				category_name=$6, stock=$7, image=$8, brand=$9, rating=$10, discount=$11,
				is_featured=$12, is_active=$13, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.CategoryID,
		product.CategoryName, product.Stock, product.Image, product.Brand,
		product.Rating, product.Discount, product.IsFeatured, product.IsActive,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	ct, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock for product %d", productID)
	}
	return nil
}
