package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

// RestaurantFilter narrows the public list endpoint.
type RestaurantFilter struct {
	Search  string
	Cuisine string
	City    string
	SortBy  string // rating | reviews | newest
	Limit   int
	Offset  int
}

func (r *RestaurantRepository) List(f RestaurantFilter) ([]entity.Restaurant, int64, error) {
	q := r.DB.Model(&entity.Restaurant{}).Where("is_active = ?", true)
	if f.Search != "" {
		q = q.Where("name LIKE ? OR description LIKE ?", "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.Cuisine != "" {
		q = q.Where("cuisine_type = ?", f.Cuisine)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.SortBy {
	case "reviews":
		q = q.Order("total_reviews DESC")
	case "newest":
		q = q.Order("created_at DESC")
	default:
		// unrated restaurants sort last
		q = q.Order("avg_rating IS NULL").Order("avg_rating DESC")
	}

	var restaurants []entity.Restaurant
	err := q.Limit(f.Limit).Offset(f.Offset).Find(&restaurants).Error
	return restaurants, total, err
}

func (r *RestaurantRepository) FindByID(id uint) (*entity.Restaurant, error) {
	var restaurant entity.Restaurant
	if err := r.DB.First(&restaurant, id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindDetail loads the restaurant with its full menu tree.
func (r *RestaurantRepository) FindDetail(id uint) (*entity.Restaurant, error) {
	var restaurant entity.Restaurant
	err := r.DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Categories.MenuItems").
		First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *RestaurantRepository) FindByOwner(ownerID uint) ([]entity.Restaurant, error) {
	var restaurants []entity.Restaurant
	err := r.DB.Where("owner_id = ?", ownerID).Find(&restaurants).Error
	return restaurants, err
}

func (r *RestaurantRepository) Create(restaurant *entity.Restaurant) error {
	return r.DB.Create(restaurant).Error
}

func (r *RestaurantRepository) Update(restaurant *entity.Restaurant) error {
	return r.DB.Save(restaurant).Error
}

func (r *RestaurantRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Restaurant{}, id).Error
}

// UpdateRatings persists the derived aggregate pair. A nil avg clears the
// column so "no rated items" is distinguishable from a real score.
func (r *RestaurantRepository) UpdateRatings(id uint, avg *float64, totalReviews int) error {
	return r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).
		Updates(map[string]any{
			"avg_rating":    avg,
			"total_reviews": totalReviews,
		}).Error
}

func (r *RestaurantRepository) SetVerified(id uint, verified bool) error {
	return r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Update("is_verified", verified).Error
}

func (r *RestaurantRepository) SetActive(id uint, active bool) error {
	return r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *RestaurantRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Restaurant{}).Count(&n).Error
	return n, err
}
