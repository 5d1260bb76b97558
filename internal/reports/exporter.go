package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders report rows into a downloadable file
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

// Export returns (bytes, filename, mime type)
func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeRegistrations:
		return e.exportRegistrationsByFormat(format, timestamp, data.Registrations)
	case ReportTypeAttendance:
		return e.exportAttendanceByFormat(format, timestamp, data.Attendance)
	case ReportTypeNotAttended:
		return e.exportNotAttendedByFormat(format, timestamp, data.NotAttended)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// REGISTRATIONS EXPORTS
//// ============================

func (e *reportExporter) exportRegistrationsByFormat(format, timestamp string, rows []RegistrationReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportRegistrationsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("registrations_report_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportRegistrationsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("registrations_report_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	case FormatPDF:
		data, err := e.exportRegistrationsPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("registrations_report_%s.pdf", timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for registrations: %s", format)
	}
}

func (e *reportExporter) exportRegistrationsCSV(rows []RegistrationReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Ticket ID", "Name", "Phone", "Email", "Type", "Performance", "Email Sent", "Checked In", "Registered At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.UserID,
			r.Name,
			r.Phone,
			r.Email,
			r.RegistrationType,
			r.PerformanceType,
			boolYesNo(r.EmailSent),
			boolYesNo(r.CheckedIn),
			r.RegisteredAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportRegistrationsExcel(rows []RegistrationReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Registrations"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Ticket ID", "Name", "Phone", "Email", "Type", "Performance", "Email Sent", "Checked In", "Registered At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.RegistrationType)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.PerformanceType)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), boolYesNo(r.EmailSent))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), boolYesNo(r.CheckedIn))
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.RegisteredAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportRegistrationsPDF(rows []RegistrationReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Registrations Report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{22, 45, 28, 55, 22, 25, 22, 22, 35}
	headers := []string{"Ticket ID", "Name", "Phone", "Email", "Type", "Performance", "Email Sent", "Checked In", "Registered At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		email := r.Email
		if len(email) > 32 {
			email = email[:29] + "..."
		}

		pdf.CellFormat(widths[0], 6, r.UserID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Phone, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, email, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.RegistrationType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.PerformanceType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, boolYesNo(r.EmailSent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[7], 6, boolYesNo(r.CheckedIn), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[8], 6, r.RegisteredAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// ATTENDANCE EXPORTS
//// ============================

func (e *reportExporter) exportAttendanceByFormat(format, timestamp string, rows []AttendanceReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportAttendanceExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("attendance_report_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportAttendanceCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("attendance_report_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	case FormatPDF:
		data, err := e.exportAttendancePDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("attendance_report_%s.pdf", timestamp)
		return data, filename, "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for attendance: %s", format)
	}
}

func (e *reportExporter) exportAttendanceCSV(rows []AttendanceReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Ticket ID", "Name", "Phone", "Type", "Scanned At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.UserID,
			r.Name,
			r.Phone,
			r.RegistrationType,
			r.ScannedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendanceExcel(rows []AttendanceReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Attendance"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Ticket ID", "Name", "Phone", "Type", "Scanned At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.RegistrationType)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.ScannedAt.Format("2006-01-02 15:04:05"))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendancePDF(rows []AttendanceReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{25, 55, 35, 30, 45}
	headers := []string{"Ticket ID", "Name", "Phone", "Type", "Scanned At"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.UserID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Phone, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.RegistrationType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.ScannedAt.Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// NOT-ATTENDED EXPORTS
//// ============================

// Not-attended shares the registrations row shape, just different
// filenames
func (e *reportExporter) exportNotAttendedByFormat(format, timestamp string, rows []RegistrationReportRow) ([]byte, string, string, error) {
	data, _, mime, err := e.exportRegistrationsByFormat(format, timestamp, rows)
	if err != nil {
		return nil, "", "", err
	}

	var ext string
	switch format {
	case FormatExcel:
		ext = "xlsx"
	case FormatPDF:
		ext = "pdf"
	default:
		ext = "csv"
	}
	filename := fmt.Sprintf("not_attended_report_%s.%s", timestamp, ext)
	return data, filename, mime, nil
}

func boolYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
