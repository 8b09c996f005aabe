package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloara/go-storefront-api/internal/model"
)

// --- Auth ---

type GoogleLoginRequest struct {
	UID         string `json:"uid" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	PhotoURL    string `json:"photoURL"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	IsAdmin     bool      `json:"isAdmin"`
}

// --- Product ---

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	CategoryID   int             `json:"categoryId" binding:"required"`
	CategoryName string          `json:"categoryName"`
	Stock        int             `json:"stock" binding:"min=0"`
	Image        string          `json:"image" binding:"required"`
	Brand        string          `json:"brand"`
	Rating       float64         `json:"rating" binding:"min=0,max=5"`
	Discount     int             `json:"discount" binding:"min=0,max=100"`
	IsFeatured   bool            `json:"isFeatured"`
	IsActive     *bool           `json:"isActive"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int             `json:"categoryId"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	Brand       *string          `json:"brand"`
	Rating      *float64         `json:"rating"`
	Discount    *int             `json:"discount"`
	IsFeatured  *bool            `json:"isFeatured"`
	IsActive    *bool            `json:"isActive"`
}

type SearchProductsRequest struct {
	Query    string `form:"q"`
	Category int    `form:"category"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Sort     string `form:"sort" binding:"omitempty,oneof=price-asc price-desc rating"`
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
	CategoryID   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Stock        int             `json:"stock"`
	Image        string          `json:"image"`
	Brand        string          `json:"brand,omitempty"`
	Rating       float64         `json:"rating"`
	Discount     int             `json:"discount"`
	IsFeatured   bool            `json:"isFeatured"`
	IsActive     bool            `json:"isActive"`
	IsAvailable  bool            `json:"isAvailable"`
}

// --- Cart / Wishlist ---

type AddCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type ClearCartResponse struct {
	Message string             `json:"message"`
	Cart    []CartItemResponse `json:"cart"`
}

type AddWishlistItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

type WishlistItemResponse struct {
	ProductID int64     `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

type ClearWishlistResponse struct {
	Message  string                 `json:"message"`
	Wishlist []WishlistItemResponse `json:"wishlist"`
}

type DetailedCartItemResponse struct {
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type DetailedCartResponse struct {
	Items    []DetailedCartItemResponse `json:"items"`
	Total    decimal.Decimal            `json:"total"`
	Orphaned []int64                    `json:"orphaned,omitempty"`
}

// --- Order ---

type OrderItemRequest struct {
	ProductID int64           `json:"productId" binding:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Image     string          `json:"image"`
}

type ShippingAddressRequest struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	TotalAmount     decimal.Decimal        `json:"totalAmount" binding:"required"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"userId"`
	Items           []OrderItemResponse    `json:"items"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	Status          model.OrderStatus      `json:"status"`
	OrderDate       time.Time              `json:"orderDate"`
}

// --- Address ---

type SaveAddressRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
}

type AddressResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	CreatedAt    time.Time `json:"createdAt"`
}
