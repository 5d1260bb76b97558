package notification

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log"
	"text/template"

	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/internal/registration"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
)

type Service interface {
	SendTicketEmail(ctx context.Context, userID, email string) error
}

type service struct {
	regRepo   registration.Repository
	eventRepo event.Repository
	channel   Channel
}

func NewService(regRepo registration.Repository, eventRepo event.Repository, channel Channel) Service {
	return &service{regRepo: regRepo, eventRepo: eventRepo, channel: channel}
}

// ===========================
// 📧 SendTicketEmail
//
// Renders the ticket with the embedded QR and delivers it. The stored
// email is updated to whatever address the sender asked for, so a typo
// at registration time can be corrected by resending.
func (s *service) SendTicketEmail(ctx context.Context, userID, email string) error {
	reg, err := s.regRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if reg == nil {
		return apperrors.ErrRegistrationNotFound
	}

	ev, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return err
	}

	body, err := renderTicket(reg, ev)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your ticket for %s - %s", ev.EventName, reg.UserID)
	if err := s.channel.Send([]string{email}, subject, body); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}

	if err := s.regRepo.MarkEmailSent(ctx, userID, email); err != nil {
		log.Printf("⚠️ Ticket sent but failed to mark email_sent for %s: %v", userID, err)
	}

	log.Printf("✅ Ticket email sent to %s for %s", email, userID)
	return nil
}

// text/template rather than html/template: the QR image is a data URL,
// which html/template's URL sanitizer would strip from the img src.
// User-provided fields are escaped by hand instead.
var ticketTmpl = template.Must(template.New("ticket").Parse(`
<div style="max-width:560px;margin:0 auto;font-family:Arial,sans-serif;border:1px solid #e0e0e0;border-radius:8px;overflow:hidden">
  <div style="background:#1a1a2e;color:#fff;padding:24px;text-align:center">
    <h1 style="margin:0;font-size:22px">{{.EventName}}</h1>
    <p style="margin:8px 0 0;color:#c9c9d9">{{.EventDate}} at {{.EventTime}}</p>
  </div>
  <div style="padding:24px">
    <p>Dear {{.Name}},</p>
    <p>Your registration is confirmed. Please present this QR code at the entrance.</p>
    <div style="text-align:center;margin:20px 0">
      <img src="{{.QRCode}}" alt="Ticket QR" width="220" height="220"/>
      <p style="font-size:20px;font-weight:bold;letter-spacing:2px;margin:8px 0">{{.TicketID}}</p>
    </div>
    <table style="width:100%;font-size:14px;border-collapse:collapse">
      <tr><td style="padding:6px 0;color:#666">Type</td><td style="text-align:right;text-transform:capitalize">{{.Type}}</td></tr>
      {{if .Performance}}<tr><td style="padding:6px 0;color:#666">Performance</td><td style="text-align:right;text-transform:capitalize">{{.Performance}}</td></tr>{{end}}
      <tr><td style="padding:6px 0;color:#666">Venue</td><td style="text-align:right">{{.Venue}}</td></tr>
    </table>
  </div>
  <div style="background:#f7f7f9;padding:14px;text-align:center;font-size:12px;color:#888">
    Keep this email handy. Entry is permitted once per ticket.
  </div>
</div>`))

func renderTicket(reg *registration.Registration, ev *event.Event) (string, error) {
	venue := ev.Venue.Name
	if ev.Venue.City != "" {
		venue = fmt.Sprintf("%s, %s", venue, ev.Venue.City)
	}

	performance := ""
	if reg.PerformanceType != nil {
		performance = *reg.PerformanceType
	}

	var buf bytes.Buffer
	err := ticketTmpl.Execute(&buf, map[string]string{
		"EventName":   html.EscapeString(ev.EventName),
		"EventDate":   ev.EventDate.Format("Monday, 2 January 2006"),
		"EventTime":   html.EscapeString(ev.EventTime),
		"Name":        html.EscapeString(reg.Name),
		"QRCode":      reg.QRCode,
		"TicketID":    reg.UserID,
		"Type":        reg.RegistrationType,
		"Performance": performance,
		"Venue":       html.EscapeString(venue),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render ticket template: %w", err)
	}
	return buf.String(), nil
}
