package services

import (
	"errors"

	"backend/entity"
	"backend/repository"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("menu category not found")

type MenuService struct {
	Categories  *repository.MenuCategoryRepository
	Items       *repository.MenuItemRepository
	Restaurants *repository.RestaurantRepository
	Ratings     *RatingService
}

func NewMenuService(categories *repository.MenuCategoryRepository, items *repository.MenuItemRepository, restaurants *repository.RestaurantRepository, ratings *RatingService) *MenuService {
	return &MenuService{Categories: categories, Items: items, Restaurants: restaurants, Ratings: ratings}
}

// requireOwner checks the caller owns the restaurant (admins pass).
func (s *MenuService) requireOwner(userID uint, role string, restaurantID uint) error {
	if role == "admin" {
		return nil
	}
	restaurant, err := s.Restaurants.FindByID(restaurantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRestaurantNotFound
	}
	if err != nil {
		return err
	}
	if restaurant.OwnerID != userID {
		return ErrNotRestaurantOwner
	}
	return nil
}

func (s *MenuService) CreateCategory(userID uint, role string, category *entity.MenuCategory) error {
	if err := s.requireOwner(userID, role, category.RestaurantID); err != nil {
		return err
	}
	return s.Categories.Create(category)
}

func (s *MenuService) UpdateCategory(userID uint, role string, id uint, name, description *string, sortOrder *int) (*entity.MenuCategory, error) {
	category, err := s.Categories.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(userID, role, category.RestaurantID); err != nil {
		return nil, err
	}

	if name != nil {
		category.Name = *name
	}
	if description != nil {
		category.Description = *description
	}
	if sortOrder != nil {
		category.SortOrder = *sortOrder
	}
	if err := s.Categories.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *MenuService) DeleteCategory(userID uint, role string, id uint) error {
	category, err := s.Categories.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireOwner(userID, role, category.RestaurantID); err != nil {
		return err
	}
	if err := s.Categories.Delete(id); err != nil {
		return err
	}
	// Items went with the category; the restaurant mean may have shifted.
	return s.Ratings.RecomputeRestaurant(category.RestaurantID)
}

func (s *MenuService) CreateItem(userID uint, role string, item *entity.MenuItem) error {
	category, err := s.Categories.FindByID(item.MenuCategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireOwner(userID, role, category.RestaurantID); err != nil {
		return err
	}
	item.IsAvailable = true
	return s.Items.Create(item)
}

type UpdateItemInput struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	IsAvailable *bool
	IsPopular   *bool
}

func (s *MenuService) UpdateItem(userID uint, role string, id uint, in UpdateItemInput) (*entity.MenuItem, error) {
	item, err := s.Items.FindWithCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(userID, role, item.MenuCategory.RestaurantID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.IsPopular != nil {
		item.IsPopular = *in.IsPopular
	}
	if err := s.Items.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) DeleteItem(userID uint, role string, id uint) error {
	item, err := s.Items.FindWithCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMenuItemNotFound
	}
	if err != nil {
		return err
	}
	if err := s.requireOwner(userID, role, item.MenuCategory.RestaurantID); err != nil {
		return err
	}
	if err := s.Items.Delete(id); err != nil {
		return err
	}
	// The deleted item's average no longer contributes.
	return s.Ratings.RecomputeRestaurant(item.MenuCategory.RestaurantID)
}

func (s *MenuService) ItemDetail(id uint) (*entity.MenuItem, error) {
	item, err := s.Items.FindWithCategory(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuItemNotFound
	}
	return item, err
}

type ItemPage struct {
	Items []entity.MenuItem `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func (s *MenuService) SearchItems(f repository.ItemFilter, page int) (*ItemPage, error) {
	items, total, err := s.Items.Search(f)
	if err != nil {
		return nil, err
	}
	return &ItemPage{Items: items, Total: total, Page: page, Limit: f.Limit}, nil
}
