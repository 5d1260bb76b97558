package registration

import (
	"errors"
	"fmt"
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

// POST /registrations
// 201 for a fresh ticket, 200 with alreadyRegistered=true for a repeat
// phone - a deliberate success path, not an error
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.Svc.Register(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, apperrors.ErrRegistrationClosed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Registration is currently closed for this event"})
		case errors.Is(err, apperrors.ErrCapacityExceeded):
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Sorry, %s slots are full", req.RegistrationType)})
		default:
			log.Printf("❌ Registration error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create registration"})
		}
		return
	}

	status := http.StatusCreated
	message := "Registration successful"
	if result.AlreadyRegistered {
		status = http.StatusOK
		message = "This phone number is already registered for this event"
	}

	c.JSON(status, gin.H{
		"registration":      result.Registration,
		"alreadyRegistered": result.AlreadyRegistered,
		"message":           message,
	})
}

// GET /registrations?eventId=&userId=|phone=|email=
func (h *Handler) Retrieve(c *gin.Context) {
	q := LookupQuery{
		EventID: c.Query("eventId"),
		UserID:  c.Query("userId"),
		Phone:   c.Query("phone"),
		Email:   c.Query("email"),
	}

	details, err := h.Svc.Lookup(c.Request.Context(), q)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No ticket found with the provided information"})
		case errors.Is(err, apperrors.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found for this ticket"})
		default:
			log.Printf("❌ Retrieve ticket error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}

	reg := details.Registration
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"registration": gin.H{
			"userId":           reg.UserID,
			"name":             reg.Name,
			"phone":            reg.Phone,
			"email":            reg.Email,
			"registrationType": reg.RegistrationType,
			"performanceType":  reg.PerformanceType,
			"qrCode":           reg.QRCode,
			"eventName":        details.Event.EventName,
			"eventDate":        details.Event.EventDate,
			"registeredAt":     reg.RegisteredAt,
		},
	})
}
