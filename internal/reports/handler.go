package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
)

type Handler struct {
	Svc ReportService
}

func NewHandler(svc ReportService) *Handler {
	return &Handler{Svc: svc}
}

// GET /reports/registrations?eventId=...&format=csv|excel|pdf
func (h *Handler) GetRegistrationsReport(c *gin.Context) {
	h.serve(c, ReportTypeRegistrations)
}

// GET /reports/attendance?eventId=...&format=csv|excel|pdf
func (h *Handler) GetAttendanceReport(c *gin.Context) {
	h.serve(c, ReportTypeAttendance)
}

// GET /reports/not-attended?eventId=...&format=csv|excel|pdf
func (h *Handler) GetNotAttendedReport(c *gin.Context) {
	h.serve(c, ReportTypeNotAttended)
}

// serve handles the shared query parsing: empty format means JSON
// preview, otherwise the file is streamed as an attachment
func (h *Handler) serve(c *gin.Context, reportType string) {
	eventID := c.Query("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId query param is required"})
		return
	}
	if _, err := uuid.Parse(eventID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return
	}

	format := c.Query("format")
	if format == "" {
		data, err := h.Svc.GetReport(c.Request.Context(), reportType, eventID)
		if err != nil {
			h.reportError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
		return
	}

	if format != FormatCSV && format != FormatExcel && format != FormatPDF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, excel or pdf"})
		return
	}

	adminID := adminIDFromContext(c)
	bytes, filename, mime, err := h.Svc.ExportReport(c.Request.Context(), reportType, format, eventID, adminID, c.ClientIP())
	if err != nil {
		h.reportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, mime, bytes)
}

func (h *Handler) reportError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
}

func adminIDFromContext(c *gin.Context) *uint {
	v, ok := c.Get("admin_id")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
