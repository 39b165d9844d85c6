package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/phone_market/internal/models"
)

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryNameTaken reports whether another category already uses name.
func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) UpdateCategoryColumns(ctx context.Context, category *models.Category, columns []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(category).Select(columns).Updates(category)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Where("id = ?", category.ID).First(category).Error
	})
}

// RecomputeProductCount refreshes the cached count of visible products.
func (r *GormRepo) RecomputeProductCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("category_id = ? AND is_active = ? AND is_approved = ?", id, true, true).
			Count(&n).Error; err != nil {
			return err
		}
		return tx.Model(&models.Category{}).Where("id = ?", id).Update("product_count", n).Error
	})
	return n, err
}

// DeleteCategoryIfUnused removes the category unless a product still
// references it.
func (r *GormRepo) DeleteCategoryIfUnused(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := r.forUpdate(tx).Where("id = ?", id).First(&category).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrCategoryInUse
		}
		return tx.Delete(&category).Error
	})
}

func (r *GormRepo) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}
