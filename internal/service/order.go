package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/veloara/go-storefront-api/internal/dto"
	"github.com/veloara/go-storefront-api/internal/model"
	"github.com/veloara/go-storefront-api/internal/repository"
)

var (
	ErrNoItems           = errors.New("order has no items")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotAdmin          = errors.New("admin access required")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type OrderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	amqpCh    *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, userRepo: userRepo, amqpCh: amqpCh}
}

// Create persists an order from the checkout payload and empties the caller's
// cart. Item snapshots are stored exactly as submitted; the live catalog is
// not consulted, so the order stays immutable when prices change later.
// Fulfillment (stock decrement) happens asynchronously via the order queue.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Quantity < 1 {
			return nil, ErrNoItems
		}
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order := &model.Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: req.TotalAmount,
		ShippingAddress: model.ShippingAddress{
			FullName:     req.ShippingAddress.FullName,
			Phone:        req.ShippingAddress.Phone,
			AddressLine1: req.ShippingAddress.AddressLine1,
			AddressLine2: req.ShippingAddress.AddressLine2,
			City:         req.ShippingAddress.City,
			State:        req.ShippingAddress.State,
			Pincode:      req.ShippingAddress.Pincode,
		},
		Status: model.OrderStatusOnProcess,
	}

	if err := s.orderRepo.CreateWithCartClear(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Best effort: the order exists either way, fulfillment retries from the
	// queue.
	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, UserID: userID})
		_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context, actorID uuid.UUID) ([]model.Order, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus moves an order along the fixed lifecycle. Only forward
// transitions are accepted; Delivered and Cancelled are terminal.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, newStatus string) (*model.Order, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	status, ok := model.ParseOrderStatus(newStatus)
	if !ok {
		return nil, ErrUnknownStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status
	return order, nil
}

func (s *OrderService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("get actor: %w", err)
	}
	if actor == nil || !actor.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}
