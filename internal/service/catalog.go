package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/internal/util"
	"github.com/Skotchmaster/phone_market/pkg/events"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

const defaultStock = 1

type CatalogService struct {
	Repo *repo.GormRepo
	// Index is optional. Without it search runs against the store.
	Index         ProductIndex
	Events        events.Publisher
	ProductsTopic string
}

// ListProducts returns visible listings only.
func (s *CatalogService) ListProducts(ctx context.Context, q transport.ProductQuery) ([]models.Product, util.Pagination, error) {
	from, limit := util.Calculate(q.Page, q.Limit)
	f := repo.ProductFilter{
		Search:      strings.TrimSpace(q.Search),
		Brand:       strings.TrimSpace(q.Brand),
		Condition:   domain.Condition(q.Condition),
		Storage:     domain.Storage(q.Storage),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		VisibleOnly: true,
		Sort:        domain.ParseProductSort(q.Sort),
		Offset:      from,
		Limit:       limit,
	}
	if q.Category != "" {
		id, err := parseID("category", q.Category)
		if err != nil {
			return nil, util.Pagination{}, err
		}
		f.CategoryID = &id
	}

	items, total, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return items, util.NewPagination(q.Page, q.Limit, total), nil
}

// GetProduct hides unlisted products from everyone but admins and their seller.
func (s *CatalogService) GetProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if !p.Visible() && !actor.IsAdmin() && !p.OwnedBy(actor.UserID) {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	return p, nil
}

// CreateProduct publishes an approved listing for admins. Anyone else submits
// a listing that waits for moderation.
func (s *CatalogService) CreateProduct(ctx context.Context, actor domain.Actor, in transport.ProductInput) (*models.Product, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	categoryID, err := s.existingCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:           strings.TrimSpace(in.Name),
		Brand:          strings.TrimSpace(in.Brand),
		Model:          strings.TrimSpace(in.Model),
		Description:    in.Description,
		CategoryID:     categoryID,
		Condition:      domain.Condition(in.Condition),
		Storage:        domain.Storage(in.Storage),
		Color:          in.Color,
		Images:         in.Images,
		Specifications: in.Specifications,
		Issues:         in.Issues,
		Warranty:       in.Warranty,
		Tags:           in.Tags,
		Stock:          defaultStock,
		IsActive:       true,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if actor.IsAdmin() {
		p.IsApproved = true
		p.IsFeatured = in.IsFeatured
	} else {
		seller := actor.UserID
		p.SellerID = &seller
	}

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	if full, err := s.Repo.GetProduct(ctx, p.ID); err == nil {
		p = full
	}
	if p.Visible() {
		refreshCategoryCount(ctx, s.Repo, p.CategoryID)
	}
	syncIndex(ctx, s.Index, p)
	publish(ctx, s.Events, s.ProductsTopic, p.ID.String(), map[string]any{
		"type":       "product_created",
		"productId":  p.ID.String(),
		"isApproved": p.IsApproved,
		"byAdmin":    actor.IsAdmin(),
	})
	return p, nil
}

// UpdateProduct lets admins edit anything. A seller may touch a few fields
// of an own listing until it is approved.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, patch transport.ProductPatch) (*models.Product, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	oldCategory := p.CategoryID

	var columns []string
	switch {
	case actor.IsAdmin():
		columns, err = s.applyAdminPatch(ctx, p, patch)
		if err != nil {
			return nil, err
		}
	case p.OwnedBy(actor.UserID) && !p.IsApproved:
		columns = applySellerPatch(p, patch)
	case p.OwnedBy(actor.UserID):
		return nil, fmt.Errorf("%w: approved listings can only be changed by an admin", domain.ErrForbidden)
	default:
		return nil, fmt.Errorf("%w: not the seller of this product", domain.ErrForbidden)
	}

	if err := s.Repo.UpdateProductColumns(ctx, p, columns); err != nil {
		return nil, notFound(err, "product")
	}
	if len(columns) == 0 {
		return p, nil
	}

	refreshCategoryCount(ctx, s.Repo, oldCategory, p.CategoryID)
	syncIndex(ctx, s.Index, p)
	publish(ctx, s.Events, s.ProductsTopic, p.ID.String(), map[string]any{
		"type":      "product_updated",
		"productId": p.ID.String(),
		"fields":    columns,
	})
	return p, nil
}

func applySellerPatch(p *models.Product, patch transport.ProductPatch) []string {
	var cols []string
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
		cols = append(cols, "name")
	}
	if patch.Description != nil {
		p.Description = *patch.Description
		cols = append(cols, "description")
	}
	if patch.Price != nil {
		p.Price = *patch.Price
		cols = append(cols, "price")
	}
	if patch.Images != nil {
		p.Images = patch.Images
		cols = append(cols, "images")
	}
	if patch.Specifications != nil {
		p.Specifications = patch.Specifications
		cols = append(cols, "specifications")
	}
	if patch.Issues != nil {
		p.Issues = patch.Issues
		cols = append(cols, "issues")
	}
	return cols
}

func (s *CatalogService) applyAdminPatch(ctx context.Context, p *models.Product, patch transport.ProductPatch) ([]string, error) {
	cols := applySellerPatch(p, patch)

	if patch.Category != nil {
		id, err := s.existingCategory(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		p.CategoryID = id
		cols = append(cols, "category_id")
	}
	if patch.Brand != nil {
		p.Brand = strings.TrimSpace(*patch.Brand)
		cols = append(cols, "brand")
	}
	if patch.Model != nil {
		p.Model = strings.TrimSpace(*patch.Model)
		cols = append(cols, "model")
	}
	if patch.OriginalPrice != nil {
		p.OriginalPrice = *patch.OriginalPrice
		cols = append(cols, "original_price")
	}
	if patch.Condition != nil {
		p.Condition = domain.Condition(*patch.Condition)
		cols = append(cols, "condition")
	}
	if patch.Storage != nil {
		p.Storage = domain.Storage(*patch.Storage)
		cols = append(cols, "storage")
	}
	if patch.Color != nil {
		p.Color = *patch.Color
		cols = append(cols, "color")
	}
	if patch.Warranty != nil {
		p.Warranty = *patch.Warranty
		cols = append(cols, "warranty")
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
		cols = append(cols, "stock")
	}
	if patch.Tags != nil {
		p.Tags = patch.Tags
		cols = append(cols, "tags")
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
		cols = append(cols, "is_active")
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
		cols = append(cols, "is_featured")
	}
	if patch.IsApproved != nil {
		p.IsApproved = *patch.IsApproved
		cols = append(cols, "is_approved")
		if p.IsApproved {
			p.RejectionReason = ""
			p.RejectedAt = nil
			cols = append(cols, "rejection_reason", "rejected_at")
		}
	}
	return cols, nil
}

// DeleteProduct is allowed for admins and the listing's seller.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return notFound(err, "product")
	}
	if !actor.IsAdmin() && !p.OwnedBy(actor.UserID) {
		return fmt.Errorf("%w: not the seller of this product", domain.ErrForbidden)
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product")
	}

	refreshCategoryCount(ctx, s.Repo, p.CategoryID)
	dropFromIndex(ctx, s.Index, id)
	publish(ctx, s.Events, s.ProductsTopic, id.String(), map[string]any{
		"type":      "product_deleted",
		"productId": id.String(),
	})
	return nil
}

// ListMyProducts returns the caller's listings in every moderation state.
func (s *CatalogService) ListMyProducts(ctx context.Context, actor domain.Actor, page, size int) ([]models.Product, util.Pagination, error) {
	if err := requireUser(actor); err != nil {
		return nil, util.Pagination{}, err
	}
	from, limit := util.Calculate(page, size)
	seller := actor.UserID
	items, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		SellerID: &seller,
		Sort:     domain.SortNewest,
		Offset:   from,
		Limit:    limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return items, util.NewPagination(page, size, total), nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]string, error) {
	return s.Repo.ListBrands(ctx)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListActiveCategories(ctx)
}

// SearchProducts queries the text index when one is configured and falls back
// to the store's substring filter otherwise or when the index fails.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, size int) ([]models.Product, util.Pagination, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, util.Pagination{}, domain.FieldErrors{"q": "Search query is required"}
	}
	from, limit := util.Calculate(page, size)

	if s.Index != nil {
		items, total, err := s.searchIndex(ctx, query, from, limit)
		if err == nil {
			return items, util.NewPagination(page, size, total), nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "query", query, "error", err)
	}

	items, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		Search:      query,
		VisibleOnly: true,
		Sort:        domain.SortNewest,
		Offset:      from,
		Limit:       limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return items, util.NewPagination(page, size, total), nil
}

// searchIndex resolves index hits against the store, keeping relevance order
// and dropping anything no longer visible.
func (s *CatalogService) searchIndex(ctx context.Context, query string, from, limit int) ([]models.Product, int64, error) {
	total, hits, err := s.Index.Search(ctx, query, from, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		id, err := uuid.Parse(h)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	byID, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.Visible() {
			continue
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (s *CatalogService) existingCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := parseID("category", raw)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return uuid.Nil, domain.FieldErrors{"category": "Category not found"}
		}
		return uuid.Nil, err
	}
	return id, nil
}
