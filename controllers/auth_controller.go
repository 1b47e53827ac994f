package controllers

import (
	"net/http"

	"hotel-manager/middleware"
	"hotel-manager/services"
	"hotel-manager/utils"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerPayload struct {
	Username string `json:"username" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Auth: svc}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var p registerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := ctrl.Auth.Register(c.Request.Context(), services.RegisterInput{
		Username: p.Username,
		Email:    p.Email,
		Password: p.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Registered! Please login.", user)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}
	res, err := ctrl.Auth.Login(c.Request.Context(), p.Username, p.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Welcome back!", res)
}

func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.Auth.Logout(c.Request.Context(), middleware.TokenExpiry(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Logged out.", nil)
}

func (ctrl *AuthController) Me(c *gin.Context) {
	actor, ok := services.ActorFrom(c.Request.Context())
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, actor)
}

// ListUsers is admin only; the service enforces it as well as the route.
func (ctrl *AuthController) ListUsers(c *gin.Context) {
	users, err := ctrl.Auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}
