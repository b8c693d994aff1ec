package services

import (
	"backend/entity"
	"backend/repository"
)

type AdminService struct {
	Users       *repository.UserRepository
	Restaurants *repository.RestaurantRepository
	Items       *repository.MenuItemRepository
	Reviews     *repository.ReviewRepository
}

func NewAdminService(users *repository.UserRepository, restaurants *repository.RestaurantRepository, items *repository.MenuItemRepository, reviews *repository.ReviewRepository) *AdminService {
	return &AdminService{Users: users, Restaurants: restaurants, Items: items, Reviews: reviews}
}

type DashboardStats struct {
	Users          int64 `json:"users"`
	Restaurants    int64 `json:"restaurants"`
	MenuItems      int64 `json:"menuItems"`
	Reviews        int64 `json:"reviews"`
	FlaggedReviews int64 `json:"flaggedReviews"`
	HiddenReviews  int64 `json:"hiddenReviews"`
}

func (s *AdminService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error
	if stats.Users, err = s.Users.Count(); err != nil {
		return nil, err
	}
	if stats.Restaurants, err = s.Restaurants.Count(); err != nil {
		return nil, err
	}
	if stats.MenuItems, err = s.Items.Count(); err != nil {
		return nil, err
	}
	if stats.Reviews, err = s.Reviews.CountWhere(""); err != nil {
		return nil, err
	}
	if stats.FlaggedReviews, err = s.Reviews.CountWhere("is_flagged = ?", true); err != nil {
		return nil, err
	}
	if stats.HiddenReviews, err = s.Reviews.CountWhere("is_visible = ?", false); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) ListUsers(search, role string, limit, offset int) ([]entity.User, int64, error) {
	return s.Users.List(search, role, limit, offset)
}

func (s *AdminService) SetUserRole(id uint, role string) error {
	return s.Users.UpdateRole(id, role)
}

func (s *AdminService) SetRestaurantVerified(id uint, verified bool) error {
	return s.Restaurants.SetVerified(id, verified)
}

func (s *AdminService) SetRestaurantActive(id uint, active bool) error {
	return s.Restaurants.SetActive(id, active)
}

func (s *AdminService) ReviewQueue(f repository.ModerationFilter) ([]entity.Review, int64, error) {
	return s.Reviews.ListForModeration(f)
}
