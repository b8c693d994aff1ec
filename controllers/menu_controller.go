package controllers

import (
	"errors"
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Service *services.MenuService
}

func NewMenuController(service *services.MenuService) *MenuController {
	return &MenuController{Service: service}
}

func (mc *MenuController) writeMenuError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrMenuItemNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRestaurantOwner):
		resp.Forbidden(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// GET /menu-items (public)  ?search=&restaurantId=&minRating=&maxPrice=&sortBy=&page=&limit=
func (mc *MenuController) SearchItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	restaurantID, _ := strconv.Atoi(c.DefaultQuery("restaurantId", "0"))
	minRating, _ := strconv.ParseFloat(c.DefaultQuery("minRating", "0"), 64)
	maxPrice, _ := strconv.ParseFloat(c.DefaultQuery("maxPrice", "0"), 64)

	result, err := mc.Service.SearchItems(repository.ItemFilter{
		Search:       c.Query("search"),
		RestaurantID: uint(restaurantID),
		MinRating:    minRating,
		MaxPrice:     maxPrice,
		SortBy:       c.DefaultQuery("sortBy", "rating"),
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}, page)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, result)
}

// GET /menu-items/:id (public)
func (mc *MenuController) ItemDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	item, err := mc.Service.ItemDetail(uint(id))
	if errors.Is(err, services.ErrMenuItemNotFound) {
		resp.NotFound(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, item)
}

type CreateCategoryReq struct {
	RestaurantID uint   `json:"restaurantId" binding:"required"`
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Description  string `json:"description"`
	SortOrder    int    `json:"sortOrder"`
}

// POST /partner/categories (owner/admin)
func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req CreateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	category := entity.MenuCategory{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Description:  req.Description,
		SortOrder:    req.SortOrder,
	}
	if err := mc.Service.CreateCategory(utils.CurrentUserID(c), utils.CurrentRole(c), &category); err != nil {
		mc.writeMenuError(c, err)
		return
	}
	resp.Created(c, category)
}

type UpdateCategoryReq struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder"`
}

// PATCH /partner/categories/:id (owner/admin)
func (mc *MenuController) UpdateCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	category, err := mc.Service.UpdateCategory(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id), req.Name, req.Description, req.SortOrder)
	if err != nil {
		mc.writeMenuError(c, err)
		return
	}
	resp.OK(c, category)
}

// DELETE /partner/categories/:id (owner/admin)
func (mc *MenuController) DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := mc.Service.DeleteCategory(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id)); err != nil {
		mc.writeMenuError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

type CreateItemReq struct {
	MenuCategoryID uint    `json:"menuCategoryId" binding:"required"`
	Name           string  `json:"name" binding:"required,min=2,max=200"`
	Description    string  `json:"description"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	ImageURL       string  `json:"imageUrl" binding:"omitempty,url"`
	IsPopular      bool    `json:"isPopular"`
}

// POST /partner/menu-items (owner/admin)
func (mc *MenuController) CreateItem(c *gin.Context) {
	var req CreateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	item := entity.MenuItem{
		MenuCategoryID: req.MenuCategoryID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ImageURL:       req.ImageURL,
		IsPopular:      req.IsPopular,
	}
	if err := mc.Service.CreateItem(utils.CurrentUserID(c), utils.CurrentRole(c), &item); err != nil {
		mc.writeMenuError(c, err)
		return
	}
	resp.Created(c, item)
}

type UpdateItemReq struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,url"`
	IsAvailable *bool    `json:"isAvailable"`
	IsPopular   *bool    `json:"isPopular"`
}

// PATCH /partner/menu-items/:id (owner/admin)
func (mc *MenuController) UpdateItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	item, err := mc.Service.UpdateItem(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id), services.UpdateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
		IsPopular:   req.IsPopular,
	})
	if err != nil {
		mc.writeMenuError(c, err)
		return
	}
	resp.OK(c, item)
}

// DELETE /partner/menu-items/:id (owner/admin)
func (mc *MenuController) DeleteItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := mc.Service.DeleteItem(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id)); err != nil {
		mc.writeMenuError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
