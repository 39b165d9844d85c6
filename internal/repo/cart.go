package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/phone_market/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart inserts the entry or increments an existing one. An increment is
// clamped to maxQty.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem, maxQty int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := r.forUpdate(tx).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			First(&existing).Error
		switch {
		case err == nil:
			res := tx.Model(&models.CartItem{}).
				Where("id = ?", existing.ID).
				Update("quantity", gorm.Expr("CASE WHEN quantity + ? > ? THEN ? ELSE quantity + ? END", item.Quantity, maxQty, maxQty, item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			return tx.Where("id = ?", existing.ID).First(item).Error
		case IsNotFound(err):
			return tx.Create(item).Error
		default:
			return err
		}
	})
}

// SetCartQuantity updates an existing entry. Quantity zero removes it.
func (r *GormRepo) SetCartQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	q := r.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)

	var res *gorm.DB
	if quantity == 0 {
		res = q.Delete(&models.CartItem{})
	} else {
		res = q.Model(&models.CartItem{}).Update("quantity", quantity)
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
