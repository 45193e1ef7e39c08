package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/argus-dev/argus/internal/auth"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login checks the operator password against ADMIN_PASSWORD_HASH (bcrypt) and
// issues a bearer token for the rest of the API.
func (h *Handler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash := os.Getenv("ADMIN_PASSWORD_HASH")

	if hash == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Operator password is not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := auth.GenerateJWT("operator")

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
