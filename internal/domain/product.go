package domain

import "math"

type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type Storage string

const (
	Storage32GB  Storage = "32GB"
	Storage64GB  Storage = "64GB"
	Storage128GB Storage = "128GB"
	Storage256GB Storage = "256GB"
	Storage512GB Storage = "512GB"
	Storage1TB   Storage = "1TB"
)

func (s Storage) Valid() bool {
	switch s {
	case Storage32GB, Storage64GB, Storage128GB, Storage256GB, Storage512GB, Storage1TB:
		return true
	}
	return false
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
)

// ParseProductSort maps unknown keys to newest-first.
func ParseProductSort(v string) ProductSort {
	switch ProductSort(v) {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return ProductSort(v)
	}
	return SortNewest
}

// DiscountPercentage is zero unless the listing is priced below its original price.
func DiscountPercentage(price, originalPrice int64) int64 {
	if originalPrice <= 0 || originalPrice <= price {
		return 0
	}
	return int64(math.Round(float64(originalPrice-price) / float64(originalPrice) * 100))
}

const MaxCartQuantity = 10
