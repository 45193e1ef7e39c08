package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/argus-dev/argus/internal/events"
	"github.com/argus-dev/argus/internal/models"
	"github.com/argus-dev/argus/internal/registry"
	"github.com/argus-dev/argus/internal/scheduler"
)

// Handler carries the engine components the control surface operates on.
type Handler struct {
	Registry  *registry.Registry
	Scheduler *scheduler.Scheduler
	Bus       *events.Bus
}

func New(reg *registry.Registry, sched *scheduler.Scheduler, bus *events.Bus) *Handler {
	return &Handler{Registry: reg, Scheduler: sched, Bus: bus}
}

// respondError maps the engine's error kinds onto HTTP statuses.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicate),
		errors.Is(err, models.ErrAlreadyRunning),
		errors.Is(err, models.ErrNotRunning):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidRange):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
