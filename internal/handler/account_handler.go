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

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.AccountView, error)
	GetBalance(ctx context.Context, q cqrs.GetBalanceQuery) (decimal.Decimal, error)
}

type AccountHandler struct {
	queries AccountQuerier
}

func NewAccountHandler(queries AccountQuerier) *AccountHandler {
	return &AccountHandler{queries: queries}
}

func (h *AccountHandler) GetBalance(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	balance, err := h.queries.GetBalance(c, cqrs.GetBalanceQuery{AccountID: accountID})
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *AccountHandler) GetUser(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	view, err := h.queries.GetUser(c, cqrs.GetUserQuery{AccountID: accountID})
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, view)
}
