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

// TransferCommander defines the write-side operation used by TransferHandler.
type TransferCommander interface {
	Transfer(ctx context.Context, cmd cqrs.TransferCommand) (*models.TransferResult, error)
}

// LedgerQuerier defines the read-side operations used by TransferHandler.
type LedgerQuerier interface {
	ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.LedgerEntryView, error)
}

type TransferHandler struct {
	commands TransferCommander
	queries  LedgerQuerier
}

type TransferRequest struct {
	RecipientEmail string          `json:"recipientEmail" validate:"required,email"`
	Amount         decimal.Decimal `json:"amount"`
}

type ListTransactionsResponse struct {
	Transactions []models.LedgerEntryView `json:"transactions"`
}

func NewTransferHandler(commands TransferCommander, queries LedgerQuerier) *TransferHandler {
	return &TransferHandler{commands: commands, queries: queries}
}

func (h *TransferHandler) Transfer(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.commands.Transfer(c, cqrs.TransferCommand{
		SenderID:       accountID,
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount):
			middleware.RespondWithError(c, http.StatusBadRequest, "Amount must be greater than 0")
		case errors.Is(err, models.ErrSenderNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Sender not found")
		case errors.Is(err, models.ErrInsufficientFunds):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient balance")
		case errors.Is(err, models.ErrRecipientNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Recipient not found")
		case errors.Is(err, models.ErrSelfTransfer):
			middleware.RespondWithError(c, http.StatusConflict, "Cannot transfer to yourself")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to process transfer")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Transfer successful",
		"newBalance":    result.NewBalance,
		"recipientName": result.RecipientName,
	})
}

func (h *TransferHandler) ListTransactions(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	views, err := h.queries.ListTransactions(c, cqrs.ListTransactionsQuery{AccountID: accountID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if views == nil {
		views = []models.LedgerEntryView{}
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}
