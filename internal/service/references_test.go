package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/transport"
)

func TestReadsPopulateReferences(t *testing.T) {
	t.Parallel()

	orders, _ := newOrderService(t)
	r := orders.Repo
	catalog := &CatalogService{Repo: r}
	admin := &AdminService{Repo: r}
	cat := seedCategory(t, r, "Smartphones")
	seller := seedUser(t, r, domain.RoleUser)
	buyer := seedUser(t, r, domain.RoleUser)
	ctx := context.Background()

	listed := seedProduct(t, r, cat.ID, func(p *models.Product) { p.SellerID = &seller.ID })
	pending := seedProduct(t, r, cat.ID, func(p *models.Product) { p.SellerID = &seller.ID; p.IsApproved = false })
	storeOwned := seedProduct(t, r, cat.ID, nil)

	t.Run("product list", func(t *testing.T) {
		items, _, err := catalog.ListProducts(ctx, transport.ProductQuery{})
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, p := range items {
			require.NotNil(t, p.Category, p.Name)
			assert.Equal(t, "Smartphones", p.Category.Name)
			if p.ID == storeOwned.ID {
				assert.Nil(t, p.Seller)
				continue
			}
			require.NotNil(t, p.Seller)
			assert.Equal(t, seller.Name, p.Seller.Name)
			assert.Empty(t, p.Seller.Email, "listing cards do not carry contact details")
		}
	})

	t.Run("product detail", func(t *testing.T) {
		p, err := catalog.GetProduct(ctx, domain.Anonymous, listed.ID)
		require.NoError(t, err)
		require.NotNil(t, p.Seller)
		assert.Equal(t, seller.ID, p.Seller.ID)
		assert.Equal(t, cat.ID, p.Category.ID)

		raw, err := json.Marshal(p)
		require.NoError(t, err)
		var wire map[string]any
		require.NoError(t, json.Unmarshal(raw, &wire))
		assert.Equal(t, seller.Name, wire["seller"].(map[string]any)["name"])
		assert.Equal(t, "Smartphones", wire["category"].(map[string]any)["name"])
		assert.Equal(t, cat.ID.String(), wire["categoryId"])
		assert.NotContains(t, wire["seller"], "passwordHash")
	})

	t.Run("pending queue carries seller contact", func(t *testing.T) {
		items, _, err := admin.ListPending(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, pending.ID, items[0].ID)
		require.NotNil(t, items[0].Seller)
		assert.Equal(t, seller.Email, items[0].Seller.Email)
	})

	created, err := orders.Create(ctx, actorOf(buyer), checkoutRequest("cod", line(listed.ID, 1)))
	require.NoError(t, err)
	require.NotNil(t, created.User)
	assert.Equal(t, buyer.Name, created.User.Name)

	t.Run("order detail and lists", func(t *testing.T) {
		o, err := orders.Get(ctx, actorOf(buyer), created.ID)
		require.NoError(t, err)
		require.NotNil(t, o.User)
		assert.Equal(t, buyer.Email, o.User.Email)

		list, _, err := admin.ListOrders(ctx, transport.OrderQuery{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].User)
		assert.Equal(t, buyer.Name, list[0].User.Name)

		d, err := admin.Dashboard(ctx)
		require.NoError(t, err)
		require.Len(t, d.RecentOrders, 1)
		require.NotNil(t, d.RecentOrders[0].User)
		assert.Equal(t, buyer.Name, d.RecentOrders[0].User.Name)
	})
}
