package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/argus-dev/argus/internal/models"
)

type CreateJobRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Target      string                 `json:"target"`
	Kind        models.JobKind         `json:"kind" binding:"required"`
	Proxy       string                 `json:"proxy"`
	Pattern     string                 `json:"pattern"`
	AcceptCodes []int                  `json:"accept_codes"`
	Database    *models.DatabaseTarget `json:"database"`
}

func (h *Handler) CreateJob(ctx *gin.Context) {
	var req CreateJobRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := models.Job{
		Name:        req.Name,
		Target:      req.Target,
		Kind:        req.Kind,
		Proxy:       req.Proxy,
		Pattern:     req.Pattern,
		AcceptCodes: req.AcceptCodes,
		Database:    req.Database,
	}

	if err := h.Registry.AddJob(job); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Job created successfully", "name": job.Name})
}

func (h *Handler) ListJobs(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"jobs": h.Registry.ListJobs()})
}
