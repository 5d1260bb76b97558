package scanentry

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

// POST /scan-entries
// 400 with alreadyScanned=true carries the original timestamp so the
// operator UI can tell "already entered" from "fake/wrong-event QR"
func (h *Handler) RecordScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.EventID == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields (eventId, userId)"})
		return
	}

	entry, err := h.Svc.RecordScan(c.Request.Context(), req.EventID, req.UserID, operatorFromContext(c), c.ClientIP())
	if err != nil {
		if ase, ok := apperrors.AsAlreadyScanned(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "This ticket has already been scanned",
				"alreadyScanned": true,
				"scannedAt":      ase.ScannedAt,
			})
			return
		}
		if errors.Is(err, apperrors.ErrInvalidTicket) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid ticket - Registration not found"})
			return
		}
		log.Printf("❌ Create scan entry error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record scan entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entry":   entry,
	})
}

// GET /scan-entries?eventId=xxx
func (h *Handler) ListEntries(c *gin.Context) {
	eventID := c.Query("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	entries, ev, err := h.Svc.ListEntries(c.Request.Context(), eventID)
	if err != nil {
		log.Printf("❌ Get scan entries error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scan entries"})
		return
	}

	resp := gin.H{
		"success": true,
		"entries": entries,
		"event":   nil,
	}
	if ev != nil {
		resp["event"] = gin.H{
			"_id":        ev.ID,
			"eventName":  ev.EventName,
			"registered": ev.Registered,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /scan-entries?eventId=xxx
func (h *Handler) DeleteEntries(c *gin.Context) {
	eventID := c.Query("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	count, err := h.Svc.DeleteByEvent(c.Request.Context(), eventID)
	if err != nil {
		log.Printf("❌ Delete scan entries error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scan entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"deletedCount": count,
	})
}

// GET /scan-entries/not-attended?eventId=xxx
func (h *Handler) ListNotAttended(c *gin.Context) {
	eventID := c.Query("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	notAttended, err := h.Svc.ListNotAttended(c.Request.Context(), eventID)
	if err != nil {
		log.Printf("❌ Get not attended error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch not attended list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"notAttended": notAttended,
		"total":       len(notAttended),
	})
}

func operatorFromContext(c *gin.Context) string {
	if v, ok := c.Get("admin_name"); ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return ""
}
