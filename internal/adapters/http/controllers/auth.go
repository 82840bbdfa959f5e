package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lsampaio/product-api/internal/adapters/http/handlers"
	"github.com/lsampaio/product-api/internal/adapters/http/middleware"
	"github.com/lsampaio/product-api/internal/core/domain"
	"github.com/lsampaio/product-api/internal/core/dto"
	"github.com/lsampaio/product-api/internal/core/service"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
)

type AuthController struct {
	authService *service.AuthService
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        string(user.ID),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary     Register a user
// @Description Creates a new account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body     dto.RegisterRequest true "Account data"
// @Success     201     {object} UserResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     409     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/v1/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var request dto.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUserResponse(user))
}

// Login godoc
// @Summary     Log in
// @Description Verifies credentials and issues a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body     dto.LoginRequest true "Credentials"
// @Success     200     {object} TokenResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     401     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Logout godoc
// @Summary     Log out
// @Description Destroys the presented bearer token
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     204
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.authService.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary     Current user
// @Description Returns the authenticated user
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/users/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.authService.GetUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(user))
}
