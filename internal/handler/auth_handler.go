package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/middleware"
	"github.com/kodbank/kodbank/internal/models"
)

// sessionCookieMaxAge matches the 24h token TTL.
const sessionCookieMaxAge = 24 * 60 * 60

// Registrar defines the write-side registration operation used by AuthHandler.
type Registrar interface {
	Register(ctx context.Context, cmd cqrs.RegisterCommand) (int64, error)
}

// SessionCommander defines the login/logout operations used by AuthHandler.
type SessionCommander interface {
	Login(cqrs.LoginCommand) (*models.LoginResult, error)
	Logout(cqrs.LogoutCommand) error
}

type AuthHandler struct {
	accounts Registrar
	sessions SessionCommander
}

type RegisterRequest struct {
	Name           string          `json:"name" validate:"required"`
	Password       string          `json:"password" validate:"required,min=6"`
	Email          string          `json:"email" validate:"required,email"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewAuthHandler(accounts Registrar, sessions SessionCommander) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	if req.InitialBalance.IsNegative() {
		middleware.RespondWithError(c, http.StatusBadRequest, "Initial balance cannot be negative")
		return
	}

	id, err := h.accounts.Register(c, cqrs.RegisterCommand{
		Name:           req.Name,
		Password:       req.Password,
		Email:          req.Email,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			middleware.RespondWithError(c, http.StatusConflict, "Email already registered")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "User registered successfully",
		"accountId": id,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.sessions.Login(cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	c.SetCookie("token", result.Token, sessionCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.Account,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := middleware.GetSessionToken(c)
	if err := h.sessions.Logout(cqrs.LogoutCommand{Token: token}); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log out")
		return
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
