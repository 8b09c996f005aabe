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

const addressColumns = `id, user_id, full_name, phone, address_line1, address_line2,
	city, state, pincode, created_at, updated_at`

// AddressRepository scopes every read and write to the owning user.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Update(ctx context.Context, address *model.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type pgAddressRepo struct{ pool *pgxpool.Pool }

func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &pgAddressRepo{pool: pool}
}

func (r *pgAddressRepo) Create(ctx context.Context, address *model.Address) error {
	address.ID = uuid.New()
	query := `INSERT INTO addresses (id, user_id, full_name, phone, address_line1, address_line2,
				city, state, pincode, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		address.ID, address.UserID, address.FullName, address.Phone,
		address.AddressLine1, address.AddressLine2, address.City, address.State, address.Pincode,
	).Scan(&address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

func (r *pgAddressRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		var a model.Address
		err := rows.Scan(
			&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.AddressLine1, &a.AddressLine2,
			&a.City, &a.State, &a.Pincode, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *pgAddressRepo) Update(ctx context.Context, address *model.Address) error {
	query := `UPDATE addresses SET full_name=$3, phone=$4, address_line1=$5, address_line2=$6,
				city=$7, state=$8, pincode=$9, updated_at=NOW()
			  WHERE id=$1 AND user_id=$2 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		address.ID, address.UserID, address.FullName, address.Phone,
		address.AddressLine1, address.AddressLine2, address.City, address.State, address.Pincode,
	).Scan(&address.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

func (r *pgAddressRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
