package reports

import (
	"context"
	"log"

	"github.com/niyateshaukh/mehfil-backend/internal/auditlog"
	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/internal/registration"
	"github.com/niyateshaukh/mehfil-backend/internal/scanentry"
)

type ReportService interface {
	GetReport(ctx context.Context, reportType, eventID string) (*ReportData, error)
	ExportReport(ctx context.Context, reportType, format, eventID string, adminID *uint, ip string) ([]byte, string, string, error)
}

type reportService struct {
	regRepo   registration.Repository
	scanRepo  scanentry.Repository
	eventRepo event.Repository
	scanSvc   scanentry.Service
	exporter  ReportExporter
	auditSvc  auditlog.Service
}

func NewService(regRepo registration.Repository, scanRepo scanentry.Repository, eventRepo event.Repository, scanSvc scanentry.Service, auditSvc auditlog.Service) ReportService {
	return &reportService{
		regRepo:   regRepo,
		scanRepo:  scanRepo,
		eventRepo: eventRepo,
		scanSvc:   scanSvc,
		exporter:  NewReportExporter(),
		auditSvc:  auditSvc,
	}
}

// GetReport assembles the rows for a JSON preview
func (s *reportService) GetReport(ctx context.Context, reportType, eventID string) (*ReportData, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	data := &ReportData{EventName: ev.EventName}

	switch reportType {
	case ReportTypeRegistrations:
		regs, err := s.regRepo.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		data.Registrations = registrationRows(regs)

	case ReportTypeAttendance:
		entries, err := s.scanRepo.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		rows := make([]AttendanceReportRow, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, AttendanceReportRow{
				UserID:           entry.UserID,
				Name:             entry.Name,
				Phone:            entry.Phone,
				RegistrationType: entry.RegistrationType,
				ScannedAt:        entry.ScannedAt,
			})
		}
		data.Attendance = rows

	case ReportTypeNotAttended:
		regs, err := s.scanSvc.ListNotAttended(ctx, eventID)
		if err != nil {
			return nil, err
		}
		data.NotAttended = registrationRows(regs)
	}

	return data, nil
}

// ExportReport renders the report in the requested format and audits the
// download
func (s *reportService) ExportReport(ctx context.Context, reportType, format, eventID string, adminID *uint, ip string) ([]byte, string, string, error) {
	data, err := s.GetReport(ctx, reportType, eventID)
	if err != nil {
		return nil, "", "", err
	}

	bytes, filename, mime, err := s.exporter.Export(reportType, format, *data)
	if err != nil {
		return nil, "", "", err
	}

	if s.auditSvc != nil {
		details := map[string]interface{}{
			"report_type": reportType,
			"format":      format,
			"filename":    filename,
		}
		if err := s.auditSvc.LogAction(ctx, adminID, &eventID, "REPORT_EXPORTED", details, ip, "success"); err != nil {
			log.Printf("❌ Audit log error: %v", err)
		}
	}

	return bytes, filename, mime, nil
}

func registrationRows(regs []registration.Registration) []RegistrationReportRow {
	rows := make([]RegistrationReportRow, 0, len(regs))
	for _, reg := range regs {
		perfType := ""
		if reg.PerformanceType != nil {
			perfType = *reg.PerformanceType
		}
		rows = append(rows, RegistrationReportRow{
			UserID:           reg.UserID,
			Name:             reg.Name,
			Phone:            reg.Phone,
			Email:            reg.Email,
			RegistrationType: reg.RegistrationType,
			PerformanceType:  perfType,
			EmailSent:        reg.EmailSent,
			CheckedIn:        reg.CheckedIn,
			RegisteredAt:     reg.RegisteredAt,
		})
	}
	return rows
}
