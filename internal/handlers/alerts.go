package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/argus-dev/argus/internal/models"
)

type CreateAlertRequest struct {
	Name         string `json:"name" binding:"required"`
	JobName      string `json:"job_name" binding:"required"`
	AccountName  string `json:"account_name" binding:"required"`
	Interval     int    `json:"interval" binding:"required"` // seconds
	ConfirmDelay int    `json:"confirm_delay"`               // seconds, default 300
	NotifyOnce   bool   `json:"notify_once"`
	Label        string `json:"label"`
}

func (h *Handler) CreateAlert(ctx *gin.Context) {
	var req CreateAlertRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := models.Alert{
		Name:         req.Name,
		JobName:      req.JobName,
		AccountName:  req.AccountName,
		Interval:     req.Interval,
		ConfirmDelay: req.ConfirmDelay,
		NotifyOnce:   req.NotifyOnce,
		Label:        req.Label,
	}

	if err := h.Registry.AddAlert(alert); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Alert created successfully", "name": alert.Name})
}

func (h *Handler) ListAlerts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"alerts": h.Registry.ListAlerts()})
}

func (h *Handler) StartAlert(ctx *gin.Context) {
	name := ctx.Param("name")

	if err := h.Scheduler.Start(name); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Alert started", "name": name})
}

func (h *Handler) PauseAlert(ctx *gin.Context) {
	name := ctx.Param("name")

	if _, exists := h.Registry.Alert(name); !exists {
		respondError(ctx, fmt.Errorf("%w: alert %q", models.ErrNotFound, name))
		return
	}

	if err := h.Scheduler.Pause(name); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Alert paused", "name": name})
}

func (h *Handler) StopAlert(ctx *gin.Context) {
	name := ctx.Param("name")

	if _, exists := h.Registry.Alert(name); !exists {
		respondError(ctx, fmt.Errorf("%w: alert %q", models.ErrNotFound, name))
		return
	}

	if err := h.Scheduler.Stop(name); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Alert stopped", "name": name})
}
