package scanentry

import (
	"time"
)

// ============================
// 🔷 GORM ScanEntry Model
//
// One row per successful check-in. The (event_id, user_id) unique index
// is the idempotency key: it is what makes duplicate scans impossible,
// regardless of how many concurrent requests race on the same ticket.
// Name/phone/type are copied from the registration at scan time - the
// entry is a historical snapshot, not a live reference.
type ScanEntry struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	EventID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_scan_entries_event_user,priority:1" json:"eventId"`
	UserID  string `gorm:"type:varchar(10);not null;uniqueIndex:idx_scan_entries_event_user,priority:2" json:"userId"`

	Name             string `gorm:"type:varchar(255);not null" json:"name"`
	Phone            string `gorm:"type:varchar(20);not null" json:"phone"`
	RegistrationType string `gorm:"type:varchar(20);not null" json:"registrationType"`

	ScannedAt time.Time `gorm:"not null;index:,sort:desc" json:"scannedAt"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ScanRequest is the payload posted by the scanner app after decoding a
// ticket QR code
type ScanRequest struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
}
