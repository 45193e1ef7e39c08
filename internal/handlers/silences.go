package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CreateSilenceRequest struct {
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
	Reason string    `json:"reason" binding:"required"`
}

func (h *Handler) CreateSilence(ctx *gin.Context) {
	var req CreateSilenceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Registry.AddSilence(req.Start, req.End, req.Reason); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Silence period set"})
}

// ListSilences returns every stored window, stale ones included; windows are
// never removed.
func (h *Handler) ListSilences(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"silences": h.Registry.ListSilences(),
		"silenced": h.Registry.IsSilenced(time.Now()),
	})
}
