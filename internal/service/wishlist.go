package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) Get(ctx context.Context, actor domain.Actor) ([]models.Product, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	return s.Repo.WishlistProducts(ctx, actor.UserID)
}

func (s *WishlistService) Add(ctx context.Context, actor domain.Actor, productID uuid.UUID) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return notFound(err, "product")
	}
	if !p.Visible() {
		return fmt.Errorf("%w: product", domain.ErrNotFound)
	}

	added, err := s.Repo.AddToWishlist(ctx, actor.UserID, productID)
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("%w: product already in wishlist", domain.ErrConflict)
	}
	return nil
}

// Remove succeeds whether or not the product was wishlisted.
func (s *WishlistService) Remove(ctx context.Context, actor domain.Actor, productID uuid.UUID) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return s.Repo.RemoveFromWishlist(ctx, actor.UserID, productID)
}
