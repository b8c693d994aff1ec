package services

import (
	"errors"
	"fmt"

	"backend/configs"
	"backend/entity"
	"backend/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type RestaurantService struct {
	Restaurants *repository.RestaurantRepository
	Items       *repository.MenuItemRepository
	Cache       *redis.Client
}

func NewRestaurantService(restaurants *repository.RestaurantRepository, items *repository.MenuItemRepository, cache *redis.Client) *RestaurantService {
	return &RestaurantService{Restaurants: restaurants, Items: items, Cache: cache}
}

type RestaurantPage struct {
	Restaurants []entity.Restaurant `json:"restaurants"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
}

// List serves the public browse endpoint through the cache; review
// mutations invalidate it since they move avg_rating sort order.
func (s *RestaurantService) List(f repository.RestaurantFilter, page int) (*RestaurantPage, error) {
	key := fmt.Sprintf("restaurants:list:%s:%s:%s:%s:%d:%d",
		f.Search, f.Cuisine, f.City, f.SortBy, page, f.Limit)
	var cached RestaurantPage
	if GetFromCache(configs.Ctx, s.Cache, key, &cached) {
		return &cached, nil
	}

	restaurants, total, err := s.Restaurants.List(f)
	if err != nil {
		return nil, err
	}
	result := &RestaurantPage{Restaurants: restaurants, Total: total, Page: page, Limit: f.Limit}
	SetToCache(configs.Ctx, s.Cache, key, result)
	return result, nil
}

func (s *RestaurantService) Detail(id uint) (*entity.Restaurant, error) {
	restaurant, err := s.Restaurants.FindDetail(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, err
}

func (s *RestaurantService) Create(ownerID uint, restaurant *entity.Restaurant) error {
	restaurant.OwnerID = ownerID
	restaurant.IsActive = true
	return s.Restaurants.Create(restaurant)
}

type UpdateRestaurantInput struct {
	Name        *string
	Description *string
	Address     *string
	City        *string
	CuisineType *string
	ImageURL    *string
}

func (s *RestaurantService) Update(userID uint, role string, id uint, in UpdateRestaurantInput) (*entity.Restaurant, error) {
	restaurant, err := s.Restaurants.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	if restaurant.OwnerID != userID && role != "admin" {
		return nil, ErrNotRestaurantOwner
	}

	if in.Name != nil {
		restaurant.Name = *in.Name
	}
	if in.Description != nil {
		restaurant.Description = *in.Description
	}
	if in.Address != nil {
		restaurant.Address = *in.Address
	}
	if in.City != nil {
		restaurant.City = *in.City
	}
	if in.CuisineType != nil {
		restaurant.CuisineType = *in.CuisineType
	}
	if in.ImageURL != nil {
		restaurant.ImageURL = *in.ImageURL
	}
	if err := s.Restaurants.Update(restaurant); err != nil {
		return nil, err
	}
	s.invalidateLists()
	return restaurant, nil
}

func (s *RestaurantService) ListForOwner(ownerID uint) ([]entity.Restaurant, error) {
	return s.Restaurants.FindByOwner(ownerID)
}

// Dashboard is the owner's at-a-glance view of one restaurant.
type Dashboard struct {
	Restaurant   *entity.Restaurant `json:"restaurant"`
	MenuItems    int                `json:"menuItems"`
	AvgRating    *float64           `json:"avgRating"`
	TotalReviews int                `json:"totalReviews"`
}

func (s *RestaurantService) OwnerDashboard(userID uint, role string, id uint) (*Dashboard, error) {
	restaurant, err := s.Restaurants.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	if restaurant.OwnerID != userID && role != "admin" {
		return nil, ErrNotRestaurantOwner
	}

	stats, err := s.Items.RatingStatsByRestaurant(id)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Restaurant:   restaurant,
		MenuItems:    len(stats),
		AvgRating:    restaurant.AvgRating,
		TotalReviews: restaurant.TotalReviews,
	}, nil
}

func (s *RestaurantService) invalidateLists() {
	InvalidateCache(configs.Ctx, s.Cache, "restaurants:list:*")
}
