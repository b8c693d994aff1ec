package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type MenuItemRepository struct {
	DB *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{DB: db}
}

// ItemRatings is the full derived tuple written back after a recompute.
// Nil pointers persist as NULL.
type ItemRatings struct {
	AvgRating             *float64
	AvgTasteRating        *float64
	AvgQualityRating      *float64
	AvgValueRating        *float64
	AvgPresentationRating *float64
	TotalReviews          int
}

// ItemRatingStat is the per-item slice the restaurant recompute reads.
type ItemRatingStat struct {
	AvgRating    *float64
	TotalReviews int
}

// ItemFilter narrows the public dish search.
type ItemFilter struct {
	Search       string
	RestaurantID uint
	MinRating    float64
	MaxPrice     float64
	SortBy       string // rating | price | reviews | newest
	Limit        int
	Offset       int
}

func (r *MenuItemRepository) FindByID(id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := r.DB.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindWithCategory resolves the owning category (and through it the
// restaurant) alongside the item.
func (r *MenuItemRepository) FindWithCategory(id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := r.DB.Preload("MenuCategory").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuItemRepository) FindByCategory(categoryID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.Where("menu_category_id = ?", categoryID).Find(&items).Error
	return items, err
}

func (r *MenuItemRepository) Search(f ItemFilter) ([]entity.MenuItem, int64, error) {
	q := r.DB.Model(&entity.MenuItem{}).
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.menu_category_id AND menu_categories.deleted_at IS NULL").
		Joins("JOIN restaurants ON restaurants.id = menu_categories.restaurant_id AND restaurants.deleted_at IS NULL").
		Where("menu_items.is_available = ? AND restaurants.is_active = ?", true, true)

	if f.Search != "" {
		q = q.Where("menu_items.name LIKE ? OR menu_items.description LIKE ?",
			"%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.RestaurantID > 0 {
		q = q.Where("menu_categories.restaurant_id = ?", f.RestaurantID)
	}
	if f.MinRating > 0 {
		q = q.Where("menu_items.avg_rating >= ?", f.MinRating)
	}
	if f.MaxPrice > 0 {
		q = q.Where("menu_items.price <= ?", f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.SortBy {
	case "price":
		q = q.Order("menu_items.price ASC")
	case "reviews":
		q = q.Order("menu_items.total_reviews DESC")
	case "newest":
		q = q.Order("menu_items.created_at DESC")
	default:
		q = q.Order("menu_items.avg_rating IS NULL").Order("menu_items.avg_rating DESC")
	}

	var items []entity.MenuItem
	err := q.Limit(f.Limit).Offset(f.Offset).Find(&items).Error
	return items, total, err
}

func (r *MenuItemRepository) Create(item *entity.MenuItem) error {
	return r.DB.Create(item).Error
}

func (r *MenuItemRepository) Update(item *entity.MenuItem) error {
	return r.DB.Save(item).Error
}

func (r *MenuItemRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.MenuItem{}, id).Error
}

// UpdateRatings writes the derived tuple in one statement. Map updates so
// nil averages reach the database as NULL instead of being skipped.
func (r *MenuItemRepository) UpdateRatings(id uint, ratings ItemRatings) error {
	return r.DB.Model(&entity.MenuItem{}).Where("id = ?", id).
		Updates(map[string]any{
			"avg_rating":              ratings.AvgRating,
			"avg_taste_rating":        ratings.AvgTasteRating,
			"avg_quality_rating":      ratings.AvgQualityRating,
			"avg_value_rating":        ratings.AvgValueRating,
			"avg_presentation_rating": ratings.AvgPresentationRating,
			"total_reviews":           ratings.TotalReviews,
		}).Error
}

// RatingStatsByRestaurant returns every item's aggregate pair for one
// restaurant, zero-review items included.
func (r *MenuItemRepository) RatingStatsByRestaurant(restaurantID uint) ([]ItemRatingStat, error) {
	var stats []ItemRatingStat
	err := r.DB.Model(&entity.MenuItem{}).
		Select("menu_items.avg_rating, menu_items.total_reviews").
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.menu_category_id AND menu_categories.deleted_at IS NULL").
		Where("menu_categories.restaurant_id = ?", restaurantID).
		Scan(&stats).Error
	return stats, err
}

func (r *MenuItemRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&entity.MenuItem{}).Count(&n).Error
	return n, err
}
