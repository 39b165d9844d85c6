package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Total    int64          `json:"total"`
}

// CartView is computed on every read. Entries whose product is gone or hidden
// are left out of it but stay stored.
type CartView struct {
	Items   []CartLine          `json:"items"`
	Summary domain.PriceSummary `json:"summary"`
}

func (s *CartService) Get(ctx context.Context, actor domain.Actor) (*CartView, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	entries, err := s.Repo.GetCart(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(entries))}
	var subtotal int64
	for _, e := range entries {
		p, ok := products[e.ProductID]
		if !ok || !p.Visible() {
			continue
		}
		line := CartLine{Product: p, Quantity: e.Quantity, Total: p.Price * int64(e.Quantity)}
		subtotal += line.Total
		view.Items = append(view.Items, line)
	}
	view.Summary = domain.Price(subtotal)
	return view, nil
}

// Add puts quantity units of the product in the cart. Adding to an existing
// entry never takes it past the stock or the per-line limit.
func (s *CartService) Add(ctx context.Context, actor domain.Actor, productID uuid.UUID, quantity int) (*CartView, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > domain.MaxCartQuantity {
		return nil, domain.FieldErrors{"quantity": fmt.Sprintf("Quantity must be between 1 and %d", domain.MaxCartQuantity)}
	}

	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if !p.Visible() {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	if p.Stock < 1 {
		return nil, fmt.Errorf("%w: %s", domain.ErrOutOfStock, p.Name)
	}

	item := &models.CartItem{UserID: actor.UserID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, item, min(p.Stock, domain.MaxCartQuantity)); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor)
}

// SetQuantity overwrites an entry's quantity. Zero removes the entry.
func (s *CartService) SetQuantity(ctx context.Context, actor domain.Actor, productID uuid.UUID, quantity int) (*CartView, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if quantity < 0 || quantity > domain.MaxCartQuantity {
		return nil, domain.FieldErrors{"quantity": fmt.Sprintf("Quantity must be between 0 and %d", domain.MaxCartQuantity)}
	}
	if err := s.Repo.SetCartQuantity(ctx, actor.UserID, productID, quantity); err != nil {
		return nil, notFound(err, "item not in cart")
	}
	return s.Get(ctx, actor)
}

func (s *CartService) Clear(ctx context.Context, actor domain.Actor) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return s.Repo.ClearCart(ctx, actor.UserID)
}
