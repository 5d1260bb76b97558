package reports

import "time"

// Report types
const (
	ReportTypeRegistrations = "registrations"
	ReportTypeAttendance    = "attendance"
	ReportTypeNotAttended   = "not_attended"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// RegistrationReportRow is one line of the registrations export
type RegistrationReportRow struct {
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	RegistrationType string    `json:"registrationType"`
	PerformanceType  string    `json:"performanceType"`
	EmailSent        bool      `json:"emailSent"`
	CheckedIn        bool      `json:"checkedIn"`
	RegisteredAt     time.Time `json:"registeredAt"`
}

// AttendanceReportRow is one line of the attendance export
type AttendanceReportRow struct {
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	RegistrationType string    `json:"registrationType"`
	ScannedAt        time.Time `json:"scannedAt"`
}

// ReportData carries the rows for whichever report was requested
type ReportData struct {
	EventName     string                  `json:"eventName"`
	Registrations []RegistrationReportRow `json:"registrations,omitempty"`
	Attendance    []AttendanceReportRow   `json:"attendance,omitempty"`
	NotAttended   []RegistrationReportRow `json:"notAttended,omitempty"`
}
