package auditlog

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Svc: svc}
}

// GET /auditlogs?action=&status=&eventId=&page=&limit=
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := AuditLogFilter{
		EventID: c.Query("eventId"),
		Action:  c.Query("action"),
		Status:  c.Query("status"),
		Page:    page,
		Limit:   limit,
	}

	result, err := h.Svc.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		log.Printf("❌ Failed to fetch audit logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, result)
}
