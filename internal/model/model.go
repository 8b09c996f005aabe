package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID          uuid.UUID
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID           int64
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   int
	CategoryName string
	Stock        int
	Image        string
	Brand        string
	Rating       float64
	Discount     int
	IsFeatured   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FinalPrice is the price after applying the percentage discount.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	off := p.Price.Mul(decimal.NewFromInt(int64(p.Discount))).Div(decimal.NewFromInt(100))
	return p.Price.Sub(off)
}

func (p *Product) Available() bool {
	return p.Stock > 0 && p.IsActive
}

type CartItem struct {
	ProductID int64
	Quantity  int
}

type WishlistItem struct {
	ProductID int64
	AddedAt   time.Time
}

type OrderStatus string

const (
	OrderStatusOnProcess OrderStatus = "On Process"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusOnProcess, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// orderTransitions holds the allowed forward flow. Delivered and Cancelled
// are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusOnProcess: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of product data taken at order creation. It never
// references the live product again, so historical orders survive price and
// catalog changes.
type OrderItem struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     string
}

type ShippingAddress struct {
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Pincode      string
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	ShippingAddress ShippingAddress
	Status          OrderStatus
	OrderDate       time.Time
	UpdatedAt       time.Time
}

type Address struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Pincode      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrderMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
