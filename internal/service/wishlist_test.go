package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
)

func TestWishlistService(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &WishlistService{Repo: r}
	cat := seedCategory(t, r, "Smartphones")
	buyer := actorOf(seedUser(t, r, domain.RoleUser))
	ctx := context.Background()

	p := seedProduct(t, r, cat.ID, nil)
	later := seedProduct(t, r, cat.ID, func(p *models.Product) { p.Name = "Pixel 7" })
	hidden := seedProduct(t, r, cat.ID, func(p *models.Product) { p.IsApproved = false })

	require.NoError(t, svc.Add(ctx, buyer, p.ID))
	require.NoError(t, svc.Add(ctx, buyer, later.ID))
	assert.ErrorIs(t, svc.Add(ctx, buyer, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, svc.Add(ctx, buyer, hidden.ID), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Add(ctx, buyer, uuid.New()), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Add(ctx, domain.Anonymous, p.ID), domain.ErrUnauthorized)

	items, err := svc.Get(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = (&AdminService{Repo: r}).Reject(ctx, later.ID, "duplicate listing")
	require.NoError(t, err)
	items, err = svc.Get(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, items, 1, "hidden products drop out of the wishlist")
	assert.Equal(t, p.ID, items[0].ID)

	require.NoError(t, svc.Remove(ctx, buyer, p.ID))
	require.NoError(t, svc.Remove(ctx, buyer, p.ID))
	items, err = svc.Get(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, items)
}
