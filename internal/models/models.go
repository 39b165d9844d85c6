package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/phone_market/internal/domain"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"                   json:"id"`
	Name         string    `gorm:"size:50;not null"             json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                     json:"-"`
	Phone        string    `gorm:"size:20"                      json:"phone,omitempty"`
	Role         string    `gorm:"size:10;index;not null"       json:"role"`
	IsActive     bool      `gorm:"not null"                     json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the part of a user shown on records that point at them. Which
// of the contact columns are filled depends on who is reading.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

func (UserRef) TableName() string {
	return "users"
}

type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (CategoryRef) TableName() string {
	return "categories"
}

type Category struct {
	ID           uuid.UUID  `gorm:"primaryKey"                  json:"id"`
	Name         string     `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description  string     `gorm:"size:200"                    json:"description,omitempty"`
	Image        string     `json:"image,omitempty"`
	ParentID     *uuid.UUID `gorm:"index"                       json:"parent,omitempty"`
	IsActive     bool       `gorm:"not null"                    json:"isActive"`
	SortOrder    int        `gorm:"not null"                    json:"sortOrder"`
	ProductCount int64      `gorm:"not null"                    json:"productCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Product struct {
	ID                 uuid.UUID         `gorm:"primaryKey"                     json:"id"`
	Name               string            `gorm:"size:100;not null"              json:"name"`
	Brand              string            `gorm:"size:50;index;not null"         json:"brand"`
	Model              string            `gorm:"size:100;not null"              json:"model"`
	Description        string            `gorm:"size:2000;not null"             json:"description"`
	Price              int64             `gorm:"index;not null;check:price >= 0" json:"price"`
	OriginalPrice      int64             `gorm:"not null"                       json:"originalPrice,omitempty"`
	DiscountPercentage int64             `gorm:"-"                              json:"discountPercentage"`
	CategoryID         uuid.UUID         `gorm:"index;not null"                 json:"categoryId"`
	Category           *CategoryRef      `gorm:"foreignKey:CategoryID;constraint:-" json:"category,omitempty"`
	Condition          domain.Condition  `gorm:"size:20;index;not null"         json:"condition"`
	Storage            domain.Storage    `gorm:"size:10;index;not null"         json:"storage"`
	Color              string            `gorm:"size:30"                        json:"color,omitempty"`
	Images             []string          `gorm:"serializer:json;type:text"      json:"images"`
	Specifications     map[string]string `gorm:"serializer:json;type:text"      json:"specifications,omitempty"`
	Issues             []string          `gorm:"serializer:json;type:text"      json:"issues,omitempty"`
	Warranty           string            `gorm:"size:200"                       json:"warranty,omitempty"`
	SellerID           *uuid.UUID        `gorm:"index"                          json:"sellerId,omitempty"`
	Seller             *UserRef          `gorm:"foreignKey:SellerID;constraint:-" json:"seller,omitempty"`
	IsApproved         bool              `gorm:"index;not null"                 json:"isApproved"`
	IsActive           bool              `gorm:"index;not null"                 json:"isActive"`
	IsFeatured         bool              `gorm:"not null"                       json:"isFeatured"`
	RejectionReason    string            `gorm:"size:500"                       json:"rejectionReason,omitempty"`
	RejectedAt         *time.Time        `json:"rejectedAt,omitempty"`
	Stock              int               `gorm:"not null;check:stock >= 0"      json:"stock"`
	SoldCount          int               `gorm:"not null"                       json:"soldCount"`
	Rating             float64           `gorm:"not null"                       json:"rating"`
	ReviewCount        int               `gorm:"not null"                       json:"reviewCount"`
	Tags               []string          `gorm:"serializer:json;type:text"      json:"tags,omitempty"`
	CreatedAt          time.Time         `gorm:"index"                          json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// Visible reports whether buyers may see and purchase the listing.
func (p *Product) Visible() bool { return p.IsActive && p.IsApproved }

func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.SellerID != nil && *p.SellerID == userID
}

// FirstImage is the image snapshotted into order lines.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.DiscountPercentage = domain.DiscountPercentage(p.Price, p.OriginalPrice)
	return nil
}

func (p *Product) AfterSave(tx *gorm.DB) error {
	p.DiscountPercentage = domain.DiscountPercentage(p.Price, p.OriginalPrice)
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                   json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_cart_user_product;not null"   json:"userId"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_user_product;not null"   json:"productId"`
	Quantity  int       `gorm:"not null;check:quantity > 0"                  json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type WishlistItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                     json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"userId"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}

type ShippingAddress struct {
	Name    string `gorm:"size:100" json:"name"`
	Phone   string `gorm:"size:20"  json:"phone"`
	Street  string `gorm:"size:200" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20"  json:"zipCode"`
}

type Order struct {
	ID                uuid.UUID            `gorm:"primaryKey"                                    json:"id"`
	UserID            uuid.UUID            `gorm:"index;not null"                                json:"userId"`
	User              *UserRef             `gorm:"foreignKey:UserID;constraint:-"                json:"user,omitempty"`
	ExternalID        *string              `gorm:"size:64;uniqueIndex"                           json:"orderId,omitempty"`
	Items             []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal          int64                `gorm:"not null"                                      json:"subtotal"`
	Tax               int64                `gorm:"not null"                                      json:"tax"`
	Shipping          int64                `gorm:"not null"                                      json:"shipping"`
	TotalAmount       int64                `gorm:"not null"                                      json:"totalAmount"`
	ShippingAddress   ShippingAddress      `gorm:"embedded;embeddedPrefix:shipping_"             json:"shippingAddress"`
	PaymentMethod     domain.PaymentMethod `gorm:"size:20;not null"                              json:"paymentMethod"`
	PaymentStatus     domain.PaymentStatus `gorm:"size:20;index;not null"                        json:"paymentStatus"`
	PaymentID         string               `gorm:"size:64"                                       json:"paymentId,omitempty"`
	OrderStatus       domain.OrderStatus   `gorm:"size:20;index;not null"                        json:"orderStatus"`
	TrackingNumber    string               `gorm:"size:100"                                      json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time           `json:"estimatedDelivery,omitempty"`
	Notes             string               `gorm:"size:500"                                      json:"notes,omitempty"`
	CreatedAt         time.Time            `gorm:"index"                                         json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"      json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null"  json:"-"`
	Position  int       `gorm:"not null"        json:"-"`
	ProductID uuid.UUID `gorm:"not null"        json:"product"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Price     int64     `gorm:"not null"        json:"price"`
	Quantity  int       `gorm:"not null"        json:"quantity"`
	Image     string    `json:"image,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Category{}, &Product{}, &CartItem{}, &WishlistItem{}, &Order{}, &OrderItem{},
	}
}
