package controllers

import (
	"strconv"

	"backend/pkg/resp"
	"backend/repository"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users   *repository.UserRepository
	Reviews *repository.ReviewRepository
}

func NewUserController(users *repository.UserRepository, reviews *repository.ReviewRepository) *UserController {
	return &UserController{Users: users, Reviews: reviews}
}

// GET /users/:id (public): profile plus their visible reviews
func (uc *UserController) Profile(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	user, err := uc.Users.FindByID(uint(id))
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}

	reviews, err := uc.Reviews.FindByUser(uint(id), 20, 0)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"user": user, "reviews": reviews})
}

// GET /profile/reviews (protected)
func (uc *UserController) MyReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := uc.Reviews.FindByUser(utils.CurrentUserID(c), limit, offset)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, reviews)
}
