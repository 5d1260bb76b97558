package notification

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
)

type Handler struct {
	Svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Svc: svc}
}

type sendTicketRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// POST /send-ticket
func (h *Handler) SendTicket(c *gin.Context) {
	var req sendTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Email = strings.TrimSpace(req.Email)
	if req.UserID == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and email are required"})
		return
	}

	if err := h.Svc.SendTicketEmail(c.Request.Context(), req.UserID, req.Email); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No registration found for the provided ticket ID"})
		case errors.Is(err, apperrors.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found for this registration"})
		default:
			log.Printf("❌ Send ticket error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send ticket email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ticket email sent successfully",
	})
}
