package controllers

import (
	"errors"
	"strconv"

	"backend/pkg/resp"
	"backend/repository"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Service *services.AdminService
	Reviews *services.ReviewService
}

func NewAdminController(service *services.AdminService, reviews *services.ReviewService) *AdminController {
	return &AdminController{Service: service, Reviews: reviews}
}

// GET /admin/dashboard
func (ac *AdminController) Dashboard(c *gin.Context) {
	stats, err := ac.Service.Stats()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, stats)
}

// GET /admin/users  ?search=&role=&limit=&offset=
func (ac *AdminController) Users(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := ac.Service.ListUsers(c.Query("search"), c.Query("role"), limit, offset)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"users": users, "total": total})
}

type SetRoleReq struct {
	Role string `json:"role" binding:"required,oneof=user owner admin"`
}

// PATCH /admin/users/:id/role
func (ac *AdminController) SetUserRole(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req SetRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ac.Service.SetUserRole(uint(id), req.Role); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"role": req.Role})
}

type ModerateRestaurantReq struct {
	IsVerified *bool `json:"isVerified"`
	IsActive   *bool `json:"isActive"`
}

// PATCH /admin/restaurants/:id
func (ac *AdminController) ModerateRestaurant(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req ModerateRestaurantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if req.IsVerified != nil {
		if err := ac.Service.SetRestaurantVerified(uint(id), *req.IsVerified); err != nil {
			resp.ServerError(c, err)
			return
		}
	}
	if req.IsActive != nil {
		if err := ac.Service.SetRestaurantActive(uint(id), *req.IsActive); err != nil {
			resp.ServerError(c, err)
			return
		}
	}
	resp.OK(c, gin.H{"updated": true})
}

// GET /admin/reviews  ?flagged=&visible=&limit=&offset=
func (ac *AdminController) ReviewQueue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	f := repository.ModerationFilter{Limit: limit, Offset: offset}
	if v := c.Query("flagged"); v != "" {
		b := v == "true"
		f.Flagged = &b
	}
	if v := c.Query("visible"); v != "" {
		b := v == "true"
		f.Visible = &b
	}

	reviews, total, err := ac.Service.ReviewQueue(f)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"reviews": reviews, "total": total})
}

type ModerateReviewReq struct {
	IsVisible *bool `json:"isVisible"`
	IsFlagged *bool `json:"isFlagged"`
}

// PATCH /admin/reviews/:id. Hiding or unhiding recomputes the affected
// item and restaurant before this responds.
func (ac *AdminController) ModerateReview(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req ModerateReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	review, err := ac.Reviews.SetModeration(uint(id), req.IsVisible, req.IsFlagged)
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, review)
	}
}

// DELETE /admin/reviews/:id
func (ac *AdminController) DeleteReview(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	err := ac.Reviews.Delete(0, "admin", uint(id))
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, gin.H{"deleted": true})
	}
}
