package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/argus-dev/argus/internal/models"
)

type CreateAccountRequest struct {
	Name       string          `json:"name" binding:"required"`
	AccountSID string          `json:"account_sid" binding:"required"`
	AuthToken  string          `json:"auth_token" binding:"required"`
	FromNumber string          `json:"from_number" binding:"required"`
	TwiMLURL   string          `json:"twiml_url"`
	SMTPFrom   string          `json:"smtp_from"`
	Recipients []string        `json:"recipients" binding:"required"`
	Methods    []models.Method `json:"methods" binding:"required"`
}

type UpdateCredentialsRequest struct {
	AccountSID string `json:"account_sid" binding:"required"`
	AuthToken  string `json:"auth_token" binding:"required"`
	FromNumber string `json:"from_number" binding:"required"`
}

// AccountSummary deliberately omits the auth token.
type AccountSummary struct {
	Name       string          `json:"name"`
	AccountSID string          `json:"account_sid"`
	FromNumber string          `json:"from_number"`
	Recipients []string        `json:"recipients"`
	Methods    []models.Method `json:"methods"`
}

func (h *Handler) CreateAccount(ctx *gin.Context) {
	var req CreateAccountRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := models.Account{
		Name:       req.Name,
		AccountSID: req.AccountSID,
		AuthToken:  req.AuthToken,
		FromNumber: req.FromNumber,
		TwiMLURL:   req.TwiMLURL,
		SMTPFrom:   req.SMTPFrom,
		Recipients: req.Recipients,
		Methods:    req.Methods,
	}

	if err := h.Registry.AddAccount(account); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Account created successfully", "name": account.Name})
}

func (h *Handler) UpdateAccountCredentials(ctx *gin.Context) {
	name := ctx.Param("name")

	var req UpdateCredentialsRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Registry.UpdateAccountCredentials(name, req.AccountSID, req.AuthToken, req.FromNumber); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Credentials updated successfully", "name": name})
}

func (h *Handler) ListAccounts(ctx *gin.Context) {
	accounts := h.Registry.ListAccounts()

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, AccountSummary{
			Name:       a.Name,
			AccountSID: a.AccountSID,
			FromNumber: a.FromNumber,
			Recipients: a.Recipients,
			Methods:    a.Methods,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"accounts": summaries})
}
