package controllers

import (
	"errors"

	"backend/configs"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *services.AuthService
	Cfg     *configs.Config
}

func NewAuthController(service *services.AuthService, cfg *configs.Config) *AuthController {
	return &AuthController{Service: service, Cfg: cfg}
}

type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := ac.Service.Register(req.Email, req.Password, req.Name)
	if errors.Is(err, services.ErrEmailTaken) {
		resp.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, ac.Cfg.JWTSecret, ac.Cfg.JWTTTL)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, gin.H{"user": user, "token": token})
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := ac.Service.Login(req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		resp.Unauthorized(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, ac.Cfg.JWTSecret, ac.Cfg.JWTTTL)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"user": user, "token": token})
}

// GET /auth/me (protected)
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Service.Profile(utils.CurrentUserID(c))
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}
	resp.OK(c, user)
}

type UpdateMeReq struct {
	Name      *string `json:"name" binding:"omitempty,min=2"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
}

// PATCH /auth/me (protected)
func (ac *AuthController) UpdateMe(c *gin.Context) {
	var req UpdateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := ac.Service.UpdateProfile(utils.CurrentUserID(c), services.UpdateProfileInput{
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, user)
}
