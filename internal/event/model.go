package event

import (
	"time"
)

// ============================
// 🔷 GORM Event Model
//
// JSON field names follow the wire contract consumed by the existing
// frontend and scanner app (camelCase), not the usual snake_case.
type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"_id"`
	EventName   string    `gorm:"type:varchar(255);not null" json:"eventName"`
	EventDate   time.Time `gorm:"not null;index" json:"eventDate"`
	EventTime   string    `gorm:"type:varchar(20);not null" json:"eventTime"`
	Venue       Venue     `gorm:"embedded;embeddedPrefix:venue_" json:"venue"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Photos      []string  `gorm:"serializer:json" json:"photos"`
	ContactEmail string   `gorm:"type:varchar(255)" json:"contactEmail,omitempty"`

	Capacity   CategoryCounts `gorm:"embedded;embeddedPrefix:capacity_" json:"capacity"`
	Registered CategoryCounts `gorm:"embedded;embeddedPrefix:registered_" json:"registered"`

	// TicketSeq feeds the per-event ticket ordinal. Only ever advanced by
	// the atomic slot claim, never reset.
	TicketSeq int `gorm:"not null;default:0" json:"-"`

	Status           string `gorm:"type:varchar(20);default:'upcoming';index" json:"status"` // upcoming/ongoing/completed/cancelled
	IsActive         bool   `gorm:"default:false;index" json:"isActive"`
	RegistrationOpen bool   `gorm:"default:true" json:"registrationOpen"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Venue is embedded into the events table (venue_name, venue_address, ...)
type Venue struct {
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	Pincode string `gorm:"type:varchar(10)" json:"pincode"`
}

// CategoryCounts holds per-category slot numbers, used for both capacity
// limits and running registered counters
type CategoryCounts struct {
	Audience   int `gorm:"not null;default:0" json:"audience"`
	Performers int `gorm:"not null;default:0" json:"performers"`
	Total      int `gorm:"not null;default:0" json:"total"`
}

// Valid event statuses
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Registration categories
const (
	CategoryAudience  = "audience"
	CategoryPerformer = "performer"
)

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	EventName        string          `json:"eventName"`
	EventDate        string          `json:"eventDate"` // "2006-01-02" or RFC3339
	EventTime        string          `json:"eventTime"`
	Description      string          `json:"description"`
	ContactEmail     string          `json:"contactEmail"`
	Venue            Venue           `json:"venue"`
	Photos           []string        `json:"photos"`
	Capacity         *CategoryCounts `json:"capacity"`
	Status           string          `json:"status"`
	IsActive         bool            `json:"isActive"`
	RegistrationOpen *bool           `json:"registrationOpen"`
}

// ============================
// 🟠 Update Event Request - all fields optional, nil means "leave alone"
type UpdateEventRequest struct {
	EventName        *string         `json:"eventName"`
	EventDate        *string         `json:"eventDate"`
	EventTime        *string         `json:"eventTime"`
	Description      *string         `json:"description"`
	ContactEmail     *string         `json:"contactEmail"`
	Venue            *VenueUpdate    `json:"venue"`
	Photos           []string        `json:"photos"`
	Capacity         *CategoryCounts `json:"capacity"`
	Status           *string         `json:"status"`
	IsActive         *bool           `json:"isActive"`
	RegistrationOpen *bool           `json:"registrationOpen"`
}

// VenueUpdate merges key-by-key into the stored venue, so a partial venue
// update preserves untouched venue fields
type VenueUpdate struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Pincode *string `json:"pincode"`
}

// DeleteEventResult reports how far the cascade reached
type DeleteEventResult struct {
	DeletedRegistrations int64 `json:"deletedRegistrations"`
	DeletedScanEntries   int64 `json:"deletedScanEntries"`
}
