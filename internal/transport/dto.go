package transport

// ProductQuery carries the public listing filters.
type ProductQuery struct {
	Page      int    `json:"page"      validate:"gte=0"`
	Limit     int    `json:"limit"     validate:"gte=0,lte=100"`
	Search    string `json:"search"    validate:"max=100"`
	Category  string `json:"category"  validate:"omitempty,uuid"`
	Brand     string `json:"brand"     validate:"max=50"`
	Condition string `json:"condition" validate:"omitempty,oneof=new like-new good fair poor"`
	Storage   string `json:"storage"   validate:"omitempty,oneof=32GB 64GB 128GB 256GB 512GB 1TB"`
	MinPrice  *int64 `json:"minPrice"  validate:"omitempty,gte=0"`
	MaxPrice  *int64 `json:"maxPrice"  validate:"omitempty,gte=0"`
	Sort      string `json:"sort"      validate:"omitempty,oneof=newest price_asc price_desc rating"`
}

type ProductInput struct {
	Name           string            `json:"name"           validate:"required,max=100"`
	Brand          string            `json:"brand"          validate:"required,max=50"`
	Model          string            `json:"model"          validate:"required,max=100"`
	Description    string            `json:"description"    validate:"required,max=2000"`
	Price          *int64            `json:"price"          validate:"required,gte=0"`
	OriginalPrice  *int64            `json:"originalPrice"  validate:"omitempty,gte=0"`
	Category       string            `json:"category"       validate:"required,uuid"`
	Condition      string            `json:"condition"      validate:"required,oneof=new like-new good fair poor"`
	Storage        string            `json:"storage"        validate:"required,oneof=32GB 64GB 128GB 256GB 512GB 1TB"`
	Color          string            `json:"color"          validate:"max=30"`
	Images         []string          `json:"images"         validate:"required,min=1,dive,required,url"`
	Specifications map[string]string `json:"specifications" validate:"omitempty,dive,keys,max=50,endkeys,max=200"`
	Issues         []string          `json:"issues"         validate:"omitempty,dive,max=200"`
	Warranty       string            `json:"warranty"       validate:"max=200"`
	Stock          *int              `json:"stock"          validate:"omitempty,gte=0"`
	Tags           []string          `json:"tags"           validate:"omitempty,dive,max=50"`
	IsFeatured     bool              `json:"isFeatured"`
}

// ProductPatch is a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Name           *string           `json:"name"           validate:"omitempty,min=1,max=100"`
	Brand          *string           `json:"brand"          validate:"omitempty,min=1,max=50"`
	Model          *string           `json:"model"          validate:"omitempty,min=1,max=100"`
	Description    *string           `json:"description"    validate:"omitempty,min=1,max=2000"`
	Price          *int64            `json:"price"          validate:"omitempty,gte=0"`
	OriginalPrice  *int64            `json:"originalPrice"  validate:"omitempty,gte=0"`
	Category       *string           `json:"category"       validate:"omitempty,uuid"`
	Condition      *string           `json:"condition"      validate:"omitempty,oneof=new like-new good fair poor"`
	Storage        *string           `json:"storage"        validate:"omitempty,oneof=32GB 64GB 128GB 256GB 512GB 1TB"`
	Color          *string           `json:"color"          validate:"omitempty,max=30"`
	Images         []string          `json:"images"         validate:"omitempty,dive,required,url"`
	Specifications map[string]string `json:"specifications" validate:"omitempty,dive,keys,max=50,endkeys,max=200"`
	Issues         []string          `json:"issues"         validate:"omitempty,dive,max=200"`
	Warranty       *string           `json:"warranty"       validate:"omitempty,max=200"`
	Stock          *int              `json:"stock"          validate:"omitempty,gte=0"`
	Tags           []string          `json:"tags"           validate:"omitempty,dive,max=50"`
	IsApproved     *bool             `json:"isApproved"`
	IsActive       *bool             `json:"isActive"`
	IsFeatured     *bool             `json:"isFeatured"`
}

type AddToCartRequest struct {
	Quantity *int `json:"quantity" validate:"omitempty,gte=1,lte=10"`
}

type SetCartQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=10"`
}

type ShippingAddress struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Phone   string `json:"phone"   validate:"required,phone"`
	Street  string `json:"street"  validate:"required,max=200"`
	City    string `json:"city"    validate:"required,max=100"`
	State   string `json:"state"   validate:"required,max=100"`
	ZipCode string `json:"zipCode" validate:"required,max=20"`
}

type OrderLine struct {
	Product  string `json:"product"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=10"`
}

type CreateOrderRequest struct {
	Items           []OrderLine     `json:"items"           validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string          `json:"paymentMethod"   validate:"required,oneof=cod gateway razorpay"`
	Notes           string          `json:"notes"           validate:"max=500"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus    string `json:"orderStatus"    validate:"required,oneof=pending confirmed processing shipped delivered cancelled returned"`
	TrackingNumber string `json:"trackingNumber" validate:"max=100"`
	Notes          string `json:"notes"          validate:"max=500"`
}

type OrderQuery struct {
	Page          int    `json:"page"          validate:"gte=0"`
	Limit         int    `json:"limit"         validate:"gte=0,lte=100"`
	Status        string `json:"status"        validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled returned"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=pending paid"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type UserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type CategoryInput struct {
	Name        string  `json:"name"        validate:"required,max=50"`
	Description string  `json:"description" validate:"max=200"`
	Image       string  `json:"image"       validate:"omitempty,url"`
	Parent      *string `json:"parent"      validate:"omitempty,uuid"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   int     `json:"sortOrder"`
}

// CategoryPatch lists the only category fields an update may touch.
type CategoryPatch struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Image       *string `json:"image"       validate:"omitempty,url"`
	Parent      *string `json:"parent"      validate:"omitempty,uuid"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   *int    `json:"sortOrder"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone"    validate:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PaymentEvent is the gateway webhook payload.
type PaymentEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string            `json:"id"`
				Notes map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
