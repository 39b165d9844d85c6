package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/pkg/events"
	"github.com/Skotchmaster/phone_market/pkg/logging"
	"github.com/Skotchmaster/phone_market/pkg/search"
)

// ProductIndex is the text index kept in step with the catalog.
type ProductIndex interface {
	IndexProduct(ctx context.Context, doc search.Document) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

// notFound maps a missing row to domain.ErrNotFound.
func notFound(err error, what string) error {
	if repo.IsNotFound(err) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}

func requireUser(actor domain.Actor) error {
	if actor.IsAnonymous() {
		return fmt.Errorf("%w: login required", domain.ErrUnauthorized)
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin access required", domain.ErrForbidden)
	}
	return nil
}

// publish is best-effort. A failed write is logged and never reaches the caller.
func publish(ctx context.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil || topic == "" {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}

func document(p *models.Product) search.Document {
	return search.Document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Model:       p.Model,
		Price:       p.Price,
		CategoryID:  p.CategoryID.String(),
		IsActive:    p.IsActive,
		IsApproved:  p.IsApproved,
	}
}

func syncIndex(ctx context.Context, idx ProductIndex, p *models.Product) {
	if idx == nil {
		return
	}
	if err := idx.IndexProduct(ctx, document(p)); err != nil {
		logging.FromContext(ctx).Warn("index_product_error", "product_id", p.ID, "error", err)
	}
}

func dropFromIndex(ctx context.Context, idx ProductIndex, id uuid.UUID) {
	if idx == nil {
		return
	}
	if err := idx.DeleteProduct(ctx, id.String()); err != nil {
		logging.FromContext(ctx).Warn("unindex_product_error", "product_id", id, "error", err)
	}
}

// refreshCategoryCount keeps the cached product count current after a
// visibility change.
func refreshCategoryCount(ctx context.Context, r *repo.GormRepo, ids ...uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := r.RecomputeProductCount(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("category_count_error", "category_id", id, "error", err)
		}
	}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.FieldErrors{field: fmt.Sprintf("Valid %s ID is required", field)}
	}
	return id, nil
}
