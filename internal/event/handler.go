package event

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
)

type Handler struct {
	Svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Svc: svc}
}

// GET /events - the single active event (or latest upcoming), null when none
func (h *Handler) GetActiveEvent(c *gin.Context) {
	e, err := h.Svc.GetActiveEvent(c.Request.Context())
	if err != nil {
		log.Printf("❌ Get active event error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if e == nil {
		c.JSON(http.StatusOK, gin.H{"event": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

// GET /events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.Svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		log.Printf("❌ Get event error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

// POST /events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e, err := h.Svc.CreateEvent(c.Request.Context(), &req, adminIDFromContext(c), c.ClientIP())
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("❌ Create event error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": e})
}

// PATCH /events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e, err := h.Svc.UpdateEvent(c.Request.Context(), c.Param("id"), &req, adminIDFromContext(c), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("❌ Update event error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": e})
}

// DELETE /events/:id - cascade delete with per-collection counts
func (h *Handler) DeleteEvent(c *gin.Context) {
	result, err := h.Svc.DeleteEvent(c.Request.Context(), c.Param("id"), adminIDFromContext(c), c.ClientIP())
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		case errors.Is(err, apperrors.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		default:
			log.Printf("❌ Delete event error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"message":              "Event, registrations, and scan entries deleted successfully",
		"deletedRegistrations": result.DeletedRegistrations,
		"deletedScanEntries":   result.DeletedScanEntries,
	})
}

func adminIDFromContext(c *gin.Context) *uint {
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}
