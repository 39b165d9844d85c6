package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
)

type OrderFilter struct {
	UserID        *uuid.UUID
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Offset        int
	Limit         int
}

type StockLine struct {
	ProductID uuid.UUID
	Quantity  int
}

func stockLines(items []models.OrderItem) []StockLine {
	lines := make([]StockLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	// a fixed lock order keeps concurrent checkouts from deadlocking
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines
}

// withItems loads the order lines and the buyer's contact details.
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "phone")
		})
}

// CreateOrderWithReservation decrements stock for every line and inserts the
// order in one transaction. A line that cannot be reserved rolls back all of it
// and yields ErrStockConflict.
func (r *GormRepo) CreateOrderWithReservation(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range stockLines(order.Items) {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ? AND is_active = ? AND is_approved = ?", line.ProductID, line.Quantity, true, true).
				Updates(map[string]any{
					"stock":      gorm.Expr("stock - ?", line.Quantity),
					"sold_count": gorm.Expr("sold_count + ?", line.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %s", ErrStockConflict, line.ProductID)
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return withItems(tx).Where("id = ?", order.ID).First(order).Error
	})
}

// CancelOrder moves the order to cancelled if it is still in one of from, and
// returns the reserved stock. Products deleted since checkout are skipped.
func (r *GormRepo) CancelOrder(ctx context.Context, id uuid.UUID, from []domain.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND order_status IN ?", id, from).
			Update("order_status", domain.OrderCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusChanged
		}

		if err := withItems(tx).Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		for _, line := range stockLines(order.Items) {
			err := tx.Model(&models.Product{}).
				Where("id = ?", line.ProductID).
				Updates(map[string]any{
					"stock":      gorm.Expr("stock + ?", line.Quantity),
					"sold_count": gorm.Expr("CASE WHEN sold_count >= ? THEN sold_count - ? ELSE 0 END", line.Quantity, line.Quantity),
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withItems(r.DB.WithContext(ctx)).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByExternalIDForUpdate locks the row when called inside a transaction.
func (r *GormRepo) GetOrderByExternalIDForUpdate(ctx context.Context, externalID string) (*models.Order, error) {
	var order models.Order
	if err := r.forUpdate(r.DB.WithContext(ctx)).Where("external_id = ?", externalID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&order).Updates(updates).Error; err != nil {
				return err
			}
		}
		return withItems(tx).Where("id = ?", id).First(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("order_status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0, f.Limit)
	if err := withItems(q).Order("created_at DESC, id ASC").Offset(f.Offset).Limit(f.Limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// RevenueSince sums paid order totals created at or after since.
func (r *GormRepo) RevenueSince(ctx context.Context, since time.Time) (int64, error) {
	var sum int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ? AND created_at >= ?", domain.PaymentPaid, since).
		Scan(&sum).Error
	return sum, err
}
