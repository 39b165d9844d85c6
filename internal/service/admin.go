package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/internal/util"
	"github.com/Skotchmaster/phone_market/pkg/events"
)

const (
	recentOrdersLimit = 5
	revenueWindow     = 30 * 24 * time.Hour
)

// AdminService backs the moderation and back-office endpoints. Callers are
// expected to have passed the admin check already.
type AdminService struct {
	Repo          *repo.GormRepo
	Index         ProductIndex
	Events        events.Publisher
	ProductsTopic string
	Now           func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ListPending returns unapproved listings, rejected ones included.
func (s *AdminService) ListPending(ctx context.Context, page, size int) ([]models.Product, util.Pagination, error) {
	from, limit := util.Calculate(page, size)
	approved := false
	items, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		Approved:      &approved,
		SellerContact: true,
		Sort:          domain.SortNewest,
		Offset:        from,
		Limit:         limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return items, util.NewPagination(page, size, total), nil
}

func (s *AdminService) Approve(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	p.IsApproved = true
	p.IsActive = true
	p.RejectionReason = ""
	p.RejectedAt = nil
	if err := s.Repo.UpdateProductColumns(ctx, p, []string{"is_approved", "is_active", "rejection_reason", "rejected_at"}); err != nil {
		return nil, notFound(err, "product")
	}

	refreshCategoryCount(ctx, s.Repo, p.CategoryID)
	syncIndex(ctx, s.Index, p)
	publish(ctx, s.Events, s.ProductsTopic, id.String(), map[string]any{
		"type":      "product_approved",
		"productId": id.String(),
		"sellerId":  sellerString(p),
	})
	return p, nil
}

// Reject keeps the listing, deactivated, with the reason for its seller.
func (s *AdminService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.FieldErrors{"reason": "Rejection reason is required"}
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	rejectedAt := s.now()
	p.IsApproved = false
	p.IsActive = false
	p.RejectionReason = reason
	p.RejectedAt = &rejectedAt
	if err := s.Repo.UpdateProductColumns(ctx, p, []string{"is_approved", "is_active", "rejection_reason", "rejected_at"}); err != nil {
		return nil, notFound(err, "product")
	}

	refreshCategoryCount(ctx, s.Repo, p.CategoryID)
	syncIndex(ctx, s.Index, p)
	publish(ctx, s.Events, s.ProductsTopic, id.String(), map[string]any{
		"type":      "product_rejected",
		"productId": id.String(),
		"sellerId":  sellerString(p),
		"reason":    reason,
	})
	return p, nil
}

func sellerString(p *models.Product) string {
	if p.SellerID == nil {
		return ""
	}
	return p.SellerID.String()
}

func (s *AdminService) ListUsers(ctx context.Context, page, size int) ([]models.User, util.Pagination, error) {
	from, limit := util.Calculate(page, size)
	users, total, err := s.Repo.ListUsers(ctx, domain.RoleUser, from, limit)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return users, util.NewPagination(page, size, total), nil
}

func (s *AdminService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	u, err := s.Repo.SetUserActive(ctx, id, active)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *AdminService) ListOrders(ctx context.Context, q transport.OrderQuery) ([]models.Order, util.Pagination, error) {
	from, limit := util.Calculate(q.Page, q.Limit)
	orders, total, err := s.Repo.ListOrders(ctx, repo.OrderFilter{
		Status:        domain.OrderStatus(q.Status),
		PaymentStatus: domain.PaymentStatus(q.PaymentStatus),
		Offset:        from,
		Limit:         limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return orders, util.NewPagination(q.Page, q.Limit, total), nil
}

func (s *AdminService) CreateCategory(ctx context.Context, in transport.CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.nameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:        name,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    true,
		SortOrder:   in.SortOrder,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Parent != nil && *in.Parent != "" {
		parent, err := s.parentCategory(ctx, *in.Parent, uuid.Nil)
		if err != nil {
			return nil, err
		}
		c.ParentID = &parent
	}

	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory changes descriptive fields only. The product count is
// recomputed from the catalog afterwards.
func (s *AdminService) UpdateCategory(ctx context.Context, id uuid.UUID, patch transport.CategoryPatch) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}

	var cols []string
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := s.nameFree(ctx, name, id); err != nil {
			return nil, err
		}
		c.Name = name
		cols = append(cols, "name")
	}
	if patch.Description != nil {
		c.Description = *patch.Description
		cols = append(cols, "description")
	}
	if patch.Image != nil {
		c.Image = *patch.Image
		cols = append(cols, "image")
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
		cols = append(cols, "is_active")
	}
	if patch.SortOrder != nil {
		c.SortOrder = *patch.SortOrder
		cols = append(cols, "sort_order")
	}
	if patch.Parent != nil {
		c.ParentID = nil
		if *patch.Parent != "" {
			parent, err := s.parentCategory(ctx, *patch.Parent, id)
			if err != nil {
				return nil, err
			}
			c.ParentID = &parent
		}
		cols = append(cols, "parent_id")
	}

	if err := s.Repo.UpdateCategoryColumns(ctx, c, cols); err != nil {
		return nil, notFound(err, "category")
	}
	n, err := s.Repo.RecomputeProductCount(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ProductCount = n
	return c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteCategoryIfUnused(ctx, id)
	if errors.Is(err, repo.ErrCategoryInUse) {
		return fmt.Errorf("%w: cannot delete category with existing products", domain.ErrConflict)
	}
	return notFound(err, "category")
}

func (s *AdminService) nameFree(ctx context.Context, name string, except uuid.UUID) error {
	taken, err := s.Repo.CategoryNameTaken(ctx, name, except)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: category %q already exists", domain.ErrConflict, name)
	}
	return nil
}

func (s *AdminService) parentCategory(ctx context.Context, raw string, self uuid.UUID) (uuid.UUID, error) {
	id, err := parseID("parent", raw)
	if err != nil {
		return uuid.Nil, err
	}
	if id == self {
		return uuid.Nil, domain.FieldErrors{"parent": "Category cannot be its own parent"}
	}
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return uuid.Nil, domain.FieldErrors{"parent": "Parent category not found"}
		}
		return uuid.Nil, err
	}
	return id, nil
}

type Dashboard struct {
	TotalUsers      int64          `json:"totalUsers"`
	TotalProducts   int64          `json:"totalProducts"`
	TotalOrders     int64          `json:"totalOrders"`
	PendingProducts int64          `json:"pendingProducts"`
	RecentOrders    []models.Order `json:"recentOrders"`
	MonthlyRevenue  int64          `json:"monthlyRevenue"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.TotalUsers, err = s.Repo.CountUsers(ctx, domain.RoleUser); err != nil {
		return nil, err
	}
	if d.TotalProducts, err = s.Repo.CountProducts(ctx, repo.ProductFilter{}); err != nil {
		return nil, err
	}
	if d.TotalOrders, err = s.Repo.CountOrders(ctx); err != nil {
		return nil, err
	}
	approved := false
	if d.PendingProducts, err = s.Repo.CountProducts(ctx, repo.ProductFilter{Approved: &approved}); err != nil {
		return nil, err
	}
	if d.RecentOrders, _, err = s.Repo.ListOrders(ctx, repo.OrderFilter{Limit: recentOrdersLimit}); err != nil {
		return nil, err
	}
	if d.MonthlyRevenue, err = s.Repo.RevenueSince(ctx, s.now().Add(-revenueWindow)); err != nil {
		return nil, err
	}
	return &d, nil
}
