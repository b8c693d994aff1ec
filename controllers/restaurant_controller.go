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

type RestaurantController struct {
	Service *services.RestaurantService
}

func NewRestaurantController(service *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Service: service}
}

// GET /restaurants (public)  ?search=&cuisine=&city=&sortBy=&page=&limit=
func (rc *RestaurantController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	result, err := rc.Service.List(repository.RestaurantFilter{
		Search:  c.Query("search"),
		Cuisine: c.Query("cuisine"),
		City:    c.Query("city"),
		SortBy:  c.DefaultQuery("sortBy", "rating"),
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}, page)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, result)
}

// GET /restaurants/:id (public)
func (rc *RestaurantController) Detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	restaurant, err := rc.Service.Detail(uint(id))
	if errors.Is(err, services.ErrRestaurantNotFound) {
		resp.NotFound(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, restaurant)
}

type CreateRestaurantReq struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CuisineType string `json:"cuisineType"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
}

// POST /partner/restaurants (owner/admin)
func (rc *RestaurantController) Create(c *gin.Context) {
	var req CreateRestaurantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	restaurant := entity.Restaurant{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		CuisineType: req.CuisineType,
		ImageURL:    req.ImageURL,
	}
	if err := rc.Service.Create(utils.CurrentUserID(c), &restaurant); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, restaurant)
}

type UpdateRestaurantReq struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	CuisineType *string `json:"cuisineType"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,url"`
}

// PATCH /partner/restaurants/:id (owner/admin)
func (rc *RestaurantController) Update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateRestaurantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	restaurant, err := rc.Service.Update(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id), services.UpdateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		CuisineType: req.CuisineType,
		ImageURL:    req.ImageURL,
	})
	switch {
	case errors.Is(err, services.ErrRestaurantNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRestaurantOwner):
		resp.Forbidden(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, restaurant)
	}
}

// GET /partner/restaurants (owner/admin)
func (rc *RestaurantController) ListForMe(c *gin.Context) {
	restaurants, err := rc.Service.ListForOwner(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, restaurants)
}

// GET /partner/restaurants/:id/dashboard (owner/admin)
func (rc *RestaurantController) Dashboard(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	dashboard, err := rc.Service.OwnerDashboard(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id))
	switch {
	case errors.Is(err, services.ErrRestaurantNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRestaurantOwner):
		resp.Forbidden(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, dashboard)
	}
}
