package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
)

type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Brand      string
	Condition  domain.Condition
	Storage    domain.Storage
	MinPrice   *int64
	MaxPrice   *int64

	// VisibleOnly restricts to active, approved listings.
	VisibleOnly bool
	// Approved, when set, filters on the moderation flag.
	Approved *bool
	SellerID *uuid.UUID
	// SellerContact adds the seller's email and phone to the preloaded seller.
	SellerContact bool

	Sort   domain.ProductSort
	Offset int
	Limit  int
}

var productOrder = map[domain.ProductSort]string{
	domain.SortNewest:    "created_at DESC, id ASC",
	domain.SortPriceAsc:  "price ASC, created_at DESC",
	domain.SortPriceDesc: "price DESC, created_at DESC",
	domain.SortRating:    "rating DESC, created_at DESC",
}

func withProductRefs(db *gorm.DB, sellerCols ...string) *gorm.DB {
	if len(sellerCols) == 0 {
		sellerCols = []string{"id", "name"}
	}
	return db.
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("Seller", func(db *gorm.DB) *gorm.DB { return db.Select(sellerCols) })
}

func (r *GormRepo) applyProductFilter(q *gorm.DB, f ProductFilter) *gorm.DB {
	if f.VisibleOnly {
		q = q.Where("is_active = ? AND is_approved = ?", true, true)
	}
	if f.Approved != nil {
		q = q.Where("is_approved = ?", *f.Approved)
	}
	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		if r.isPostgres() {
			q = q.Where(`(name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`, pattern, pattern)
		} else {
			q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}
	if f.Storage != "" {
		q = q.Where("storage = ?", f.Storage)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := r.applyProductFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := productOrder[f.Sort]
	if !ok {
		order = productOrder[domain.SortNewest]
	}

	var sellerCols []string
	if f.SellerContact {
		sellerCols = []string{"id", "name", "email", "phone"}
	}
	items := make([]models.Product, 0, f.Limit)
	if err := withProductRefs(q, sellerCols...).Order(order).Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withProductRefs(r.DB.WithContext(ctx), "id", "name", "phone").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := withProductRefs(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

// UpdateProductColumns writes the listed columns of product, zero values
// included, and reloads the row.
func (r *GormRepo) UpdateProductColumns(ctx context.Context, product *models.Product, columns []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(product).Select(columns).Updates(product)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		product.Category, product.Seller = nil, nil
		return withProductRefs(tx, "id", "name", "phone").Where("id = ?", product.ID).First(product).Error
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListBrands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ? AND is_approved = ?", true, true).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *GormRepo) CountProducts(ctx context.Context, f ProductFilter) (int64, error) {
	var n int64
	err := r.applyProductFilter(r.DB.WithContext(ctx).Model(&models.Product{}), f).Count(&n).Error
	return n, err
}
