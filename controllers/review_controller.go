package controllers

import (
	"errors"
	"strconv"

	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	Service *services.ReviewService
}

func NewReviewController(service *services.ReviewService) *ReviewController {
	return &ReviewController{Service: service}
}

type CreateReviewReq struct {
	MenuItemID         uint     `json:"menuItemId" binding:"required"`
	Rating             float64  `json:"rating" binding:"required,min=1,max=5"`
	TasteRating        *float64 `json:"tasteRating" binding:"omitempty,min=1,max=5"`
	QualityRating      *float64 `json:"qualityRating" binding:"omitempty,min=1,max=5"`
	ValueRating        *float64 `json:"valueRating" binding:"omitempty,min=1,max=5"`
	PresentationRating *float64 `json:"presentationRating" binding:"omitempty,min=1,max=5"`
	Title              string   `json:"title" binding:"max=200"`
	Content            string   `json:"content" binding:"required,min=10,max=5000"`
	PhotoURLs          []string `json:"photoUrls" binding:"omitempty,max=5,dive,url"`
}

type UpdateReviewReq struct {
	Rating             *float64 `json:"rating" binding:"omitempty,min=1,max=5"`
	TasteRating        *float64 `json:"tasteRating" binding:"omitempty,min=1,max=5"`
	QualityRating      *float64 `json:"qualityRating" binding:"omitempty,min=1,max=5"`
	ValueRating        *float64 `json:"valueRating" binding:"omitempty,min=1,max=5"`
	PresentationRating *float64 `json:"presentationRating" binding:"omitempty,min=1,max=5"`
	Title              *string  `json:"title" binding:"omitempty,max=200"`
	Content            *string  `json:"content" binding:"omitempty,min=10,max=5000"`
}

// POST /reviews (protected)
func (rc *ReviewController) Create(c *gin.Context) {
	var req CreateReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	review, err := rc.Service.Create(utils.CurrentUserID(c), services.CreateReviewInput{
		MenuItemID:         req.MenuItemID,
		Rating:             req.Rating,
		TasteRating:        req.TasteRating,
		QualityRating:      req.QualityRating,
		ValueRating:        req.ValueRating,
		PresentationRating: req.PresentationRating,
		Title:              req.Title,
		Content:            req.Content,
		PhotoURLs:          req.PhotoURLs,
	})
	switch {
	case errors.Is(err, services.ErrMenuItemNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyReviewed):
		resp.BadRequest(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.Created(c, review)
	}
}

// GET /menu-items/:id/reviews (public)  ?page=&limit=&sortBy=helpful|newest|rating
// With a valid token each review carries hasVotedHelpful for the caller.
func (rc *ReviewController) ListForMenuItem(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("id"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sortBy := c.DefaultQuery("sortBy", "helpful")
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	result, err := rc.Service.ListForMenuItem(uint(itemID), utils.CurrentUserID(c), sortBy, page, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, result)
}

// PATCH /reviews/:id (protected, author)
func (rc *ReviewController) Update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	review, err := rc.Service.Update(utils.CurrentUserID(c), uint(id), services.UpdateReviewInput{
		Rating:             req.Rating,
		TasteRating:        req.TasteRating,
		QualityRating:      req.QualityRating,
		ValueRating:        req.ValueRating,
		PresentationRating: req.PresentationRating,
		Title:              req.Title,
		Content:            req.Content,
	})
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotReviewAuthor):
		resp.Forbidden(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, review)
	}
}

// DELETE /reviews/:id (protected, author or admin)
func (rc *ReviewController) Delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	err := rc.Service.Delete(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id))
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotReviewAuthor):
		resp.Forbidden(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, gin.H{"deleted": true})
	}
}

// POST /reviews/:id/helpful (protected)
func (rc *ReviewController) VoteHelpful(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	voted, err := rc.Service.VoteHelpful(utils.CurrentUserID(c), uint(id))
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOwnVoteForbidden):
		resp.BadRequest(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, gin.H{"voted": voted})
	}
}

// POST /reviews/:id/flag (protected)
func (rc *ReviewController) Flag(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	err := rc.Service.Flag(uint(id))
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, gin.H{"flagged": true})
	}
}

type RespondReq struct {
	Response string `json:"response" binding:"required,min=1,max=2000"`
}

// POST /reviews/:id/respond (protected, restaurant owner or admin)
func (rc *ReviewController) Respond(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req RespondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	review, err := rc.Service.Respond(utils.CurrentUserID(c), utils.CurrentRole(c), uint(id), req.Response)
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRestaurantOwner):
		resp.Forbidden(c, err.Error())
	case err != nil:
		resp.ServerError(c, err)
	default:
		resp.OK(c, review)
	}
}
