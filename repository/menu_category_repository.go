package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type MenuCategoryRepository struct {
	DB *gorm.DB
}

func NewMenuCategoryRepository(db *gorm.DB) *MenuCategoryRepository {
	return &MenuCategoryRepository{DB: db}
}

func (r *MenuCategoryRepository) FindByID(id uint) (*entity.MenuCategory, error) {
	var category entity.MenuCategory
	if err := r.DB.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *MenuCategoryRepository) FindByRestaurant(restaurantID uint) ([]entity.MenuCategory, error) {
	var categories []entity.MenuCategory
	err := r.DB.
		Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC").
		Find(&categories).Error
	return categories, err
}

func (r *MenuCategoryRepository) Create(category *entity.MenuCategory) error {
	return r.DB.Create(category).Error
}

func (r *MenuCategoryRepository) Update(category *entity.MenuCategory) error {
	return r.DB.Save(category).Error
}

// Delete removes the category and its items together, so orphaned items
// cannot keep feeding restaurant aggregates or the public search.
func (r *MenuCategoryRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_category_id = ?", id).Delete(&entity.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.MenuCategory{}, id).Error
	})
}
