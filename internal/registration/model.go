package registration

import (
	"fmt"
	"regexp"
	"time"
)

// ============================
// 🔷 GORM Registration Model
//
// UserID is the human-readable ticket id (e.g. A0007) embedded in the QR
// code. The (event_id, phone) unique index is what makes double submits
// harmless under concurrency.
type Registration struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	UserID  string `gorm:"type:varchar(10);not null;uniqueIndex" json:"userId"`
	EventID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_registrations_event_phone,priority:1" json:"eventId"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Phone   string `gorm:"type:varchar(20);not null;uniqueIndex:idx_registrations_event_phone,priority:2" json:"phone"`
	Email   string `gorm:"type:varchar(255)" json:"email,omitempty"`

	RegistrationType string  `gorm:"type:varchar(20);not null;index" json:"registrationType"` // audience | performer
	PerformanceType  *string `gorm:"type:varchar(20)" json:"performanceType,omitempty"`

	// Base64 PNG data URL, rendered once at creation time
	QRCode       string    `gorm:"type:text;not null" json:"qrCode"`
	RegisteredAt time.Time `gorm:"not null" json:"registeredAt"`

	EmailSent   bool       `gorm:"default:false" json:"emailSent"`
	EmailSentAt *time.Time `json:"emailSentAt,omitempty"`

	CheckedIn   bool       `gorm:"default:false;index" json:"checkedIn"`
	CheckedInAt *time.Time `json:"checkedInAt,omitempty"`
	CheckedInBy *string    `gorm:"type:varchar(100)" json:"checkedInBy,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Performance sub-types allowed for performer registrations
var performanceTypes = map[string]bool{
	"story":   true,
	"poetry":  true,
	"shayari": true,
	"music":   true,
	"singing": true,
}

// ValidPerformanceType reports whether t is one of the allowed sub-types
func ValidPerformanceType(t string) bool {
	return performanceTypes[t]
}

var ticketIDPattern = regexp.MustCompile(`^[AP]\d{4}$`)

// FormatTicketID builds the human-readable ticket id: one uppercase
// category prefix letter followed by a 4-digit zero-padded ordinal
func FormatTicketID(registrationType string, ordinal int) string {
	prefix := "A"
	if registrationType == "performer" {
		prefix = "P"
	}
	return fmt.Sprintf("%s%04d", prefix, ordinal)
}

// ValidTicketID reports whether s looks like a ticket id (e.g. A0007)
func ValidTicketID(s string) bool {
	return ticketIDPattern.MatchString(s)
}

// ============================
// 🟡 Register Request
type RegisterRequest struct {
	EventID          string `json:"eventId"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	RegistrationType string `json:"registrationType"`
	PerformanceType  string `json:"performanceType"`
}

// RegisterResult distinguishes a fresh ticket from an idempotent replay
type RegisterResult struct {
	Registration      *Registration
	AlreadyRegistered bool
}

// LookupQuery finds an existing ticket by userId (scanner path) or by
// phone/email (self-service retrieval), optionally scoped to an event
type LookupQuery struct {
	EventID string
	UserID  string
	Phone   string
	Email   string
}
