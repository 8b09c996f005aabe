package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/repository"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	return s.addressRepo.ListByUserID(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req dto.SaveAddressRequest) (*model.Address, error) {
	address := &model.Address{
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req dto.SaveAddressRequest) (*model.Address, error) {
	address := &model.Address{
		ID:           id,
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
	}
	if err := s.addressRepo.Update(ctx, address); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.addressRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}
