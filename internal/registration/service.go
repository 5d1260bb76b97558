package registration

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/niyateshaukh/mehfil-backend/internal/auditlog"
	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
	"github.com/niyateshaukh/mehfil-backend/utils"
)

// EmailQueue enqueues a ticket email for async delivery. Best effort;
// implementations must never block the registration path on broker
// trouble.
type EmailQueue interface {
	EnqueueTicketEmail(ctx context.Context, userID, email string)
}

// TicketDetails pairs a registration with its event summary for the
// self-service ticket retrieval response
type TicketDetails struct {
	Registration *Registration
	Event        *event.Event
}

type Service interface {
	Register(ctx context.Context, req *RegisterRequest, ip string) (*RegisterResult, error)
	Lookup(ctx context.Context, q LookupQuery) (*TicketDetails, error)
}

type service struct {
	repo      Repository
	eventRepo event.Repository
	auditSvc  auditlog.Service
	mailQueue EmailQueue // nil disables async ticket emails
}

func NewService(repo Repository, eventRepo event.Repository, auditSvc auditlog.Service, mailQueue EmailQueue) Service {
	return &service{repo: repo, eventRepo: eventRepo, auditSvc: auditSvc, mailQueue: mailQueue}
}

// ===========================
// 🎯 Register
//
// Duplicate phone submissions are a success path: the existing ticket
// comes back unchanged with AlreadyRegistered=true, and counters move by
// exactly one per distinct phone. The capacity check and ticket ordinal
// both come from one conditional UPDATE on the event row, so neither can
// race past its limit.
func (s *service) Register(ctx context.Context, req *RegisterRequest, ip string) (*RegisterResult, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	email := strings.TrimSpace(req.Email)
	regType := req.RegistrationType

	if req.EventID == "" {
		return nil, apperrors.NewValidation("eventId", "Event ID is required")
	}
	if name == "" || phone == "" {
		return nil, apperrors.NewValidation("name", "Name and phone number are required")
	}
	if regType != event.CategoryAudience && regType != event.CategoryPerformer {
		return nil, apperrors.NewValidation("registrationType", "Invalid registration type")
	}

	var performanceType *string
	if regType == event.CategoryPerformer {
		if req.PerformanceType == "" {
			return nil, apperrors.NewValidation("performanceType", "Performance type is required for performers")
		}
		if !ValidPerformanceType(req.PerformanceType) {
			return nil, apperrors.NewValidation("performanceType", "Invalid performance type")
		}
		pt := req.PerformanceType
		performanceType = &pt
	}

	ev, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !ev.RegistrationOpen {
		return nil, apperrors.ErrRegistrationClosed
	}

	// Idempotent-return check: repeated submissions from the same phone
	// get their existing ticket back, never a second one
	existing, err := s.repo.FindByEventAndPhone(ctx, ev.ID, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("📱 Phone already registered, returning existing ticket: %s", existing.UserID)
		return &RegisterResult{Registration: existing, AlreadyRegistered: true}, nil
	}

	// Atomic capacity claim + ticket ordinal
	ordinal, err := s.eventRepo.ClaimSlot(ctx, ev.ID, regType)
	if err != nil {
		return nil, err
	}
	userID := FormatTicketID(regType, ordinal)

	qrCode, err := utils.GenerateQRCode(utils.QRPayload{
		UserID:  userID,
		EventID: ev.ID,
		Name:    name,
		Phone:   phone,
		Type:    regType,
	})
	if err != nil {
		s.releaseSlot(ctx, ev.ID, regType)
		return nil, err
	}

	reg := &Registration{
		UserID:           userID,
		EventID:          ev.ID,
		Name:             name,
		Phone:            phone,
		Email:            email,
		RegistrationType: regType,
		PerformanceType:  performanceType,
		QRCode:           qrCode,
		RegisteredAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		if err == ErrDuplicate {
			// Lost a same-phone race: hand back the winner's ticket and
			// return the slot we claimed
			s.releaseSlot(ctx, ev.ID, regType)
			winner, lookupErr := s.repo.FindByEventAndPhone(ctx, ev.ID, phone)
			if lookupErr == nil && winner != nil {
				return &RegisterResult{Registration: winner, AlreadyRegistered: true}, nil
			}
			return nil, err
		}
		s.releaseSlot(ctx, ev.ID, regType)
		return nil, err
	}

	if email != "" && s.mailQueue != nil {
		s.mailQueue.EnqueueTicketEmail(ctx, userID, email)
	}

	s.audit(ctx, &ev.ID, "REGISTRATION_CREATED", map[string]interface{}{
		"user_id":           userID,
		"registration_type": regType,
	}, ip)

	log.Printf("✅ New registration created: %s", userID)
	return &RegisterResult{Registration: reg, AlreadyRegistered: false}, nil
}

// ===========================
// 🔍 Lookup - ticket retrieval by userId, phone or email
func (s *service) Lookup(ctx context.Context, q LookupQuery) (*TicketDetails, error) {
	if q.UserID == "" && q.Phone == "" && q.Email == "" {
		return nil, apperrors.NewValidation("query", "Provide phone, email, or userId")
	}

	reg, err := s.repo.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, apperrors.ErrRegistrationNotFound
	}

	ev, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}

	return &TicketDetails{Registration: reg, Event: ev}, nil
}

func (s *service) releaseSlot(ctx context.Context, eventID, category string) {
	if err := s.eventRepo.ReleaseSlot(ctx, eventID, category); err != nil {
		log.Printf("❌ Failed to release claimed slot for event %s: %v", eventID, err)
	}
}

func (s *service) audit(ctx context.Context, eventID *string, action string, details map[string]interface{}, ip string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, nil, eventID, action, details, ip, "success"); err != nil {
		log.Printf("❌ Audit log error: %v", err)
	}
}
