package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/models"
)

// WishlistProducts joins the wishlist with the catalog, keeping visible products.
func (r *GormRepo) WishlistProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN wishlist_items ON wishlist_items.product_id = products.id").
		Where("wishlist_items.user_id = ? AND products.is_active = ? AND products.is_approved = ?", userID, true, true).
		Order("wishlist_items.created_at DESC").
		Find(&products).Error
	return products, err
}

// AddToWishlist reports false when the product is already wishlisted.
func (r *GormRepo) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	tx := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		FirstOrCreate(&item)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *GormRepo) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}
