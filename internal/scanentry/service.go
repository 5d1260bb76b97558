package scanentry

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/niyateshaukh/mehfil-backend/internal/auditlog"
	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/internal/registration"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
)

// DefaultOperator is recorded as checkedInBy when the scanner identity
// is unavailable
const DefaultOperator = "admin-scanner"

type Service interface {
	RecordScan(ctx context.Context, eventID, userID, operator, ip string) (*ScanEntry, error)
	ListEntries(ctx context.Context, eventID string) ([]ScanEntry, *event.Event, error)
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
	ListNotAttended(ctx context.Context, eventID string) ([]registration.Registration, error)
}

type service struct {
	repo      Repository
	regRepo   registration.Repository
	eventRepo event.Repository
	auditSvc  auditlog.Service
}

func NewService(repo Repository, regRepo registration.Repository, eventRepo event.Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, regRepo: regRepo, eventRepo: eventRepo, auditSvc: auditSvc}
}

// ===========================
// 🎯 Record Scan - at-most-once per ticket
//
// The pre-insert existence check is a fast path for the common duplicate
// (camera frame bursts, operator re-scans). The authority is the unique
// index: when two scans race, exactly one insert wins and the loser maps
// the duplicate-key error to AlreadyScanned.
func (s *service) RecordScan(ctx context.Context, eventID, userID, operator, ip string) (*ScanEntry, error) {
	if operator == "" {
		operator = DefaultOperator
	}

	// Forged or wrong-event QR codes fail here
	reg, err := s.regRepo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, apperrors.ErrInvalidTicket
	}

	existing, err := s.repo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &apperrors.AlreadyScannedError{ScannedAt: existing.ScannedAt}
	}

	entry := &ScanEntry{
		EventID:          eventID,
		UserID:           reg.UserID,
		Name:             reg.Name,
		Phone:            reg.Phone,
		RegistrationType: reg.RegistrationType,
		ScannedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race to a concurrent scan of the same ticket
			if winner, lookupErr := s.repo.FindByEventAndUser(ctx, eventID, userID); lookupErr == nil && winner != nil {
				return nil, &apperrors.AlreadyScannedError{ScannedAt: winner.ScannedAt}
			}
			return nil, &apperrors.AlreadyScannedError{}
		}
		return nil, err
	}

	if err := s.regRepo.MarkCheckedIn(ctx, eventID, userID, operator, entry.ScannedAt); err != nil {
		// The scan entry is already durable; the check-in flag catches up
		// on the next reconciliation, so log rather than fail the scan
		log.Printf("❌ Failed to mark registration %s as checked in: %v", userID, err)
	}

	s.audit(ctx, &eventID, "SCAN_RECORDED", map[string]interface{}{
		"user_id":  userID,
		"operator": operator,
	}, ip)

	log.Printf("✅ Scan entry created: %s (by %s)", userID, operator)
	return entry, nil
}

// ===========================
// 🔍 List entries for the check-in dashboard, most recent first
func (s *service) ListEntries(ctx context.Context, eventID string) ([]ScanEntry, *event.Event, error) {
	entries, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return entries, nil, nil
		}
		return nil, nil, err
	}

	return entries, ev, nil
}

// DeleteByEvent bulk-deletes an event's scan entries (cascade path)
func (s *service) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	count, err := s.repo.DeleteByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	log.Printf("✅ Deleted %d scan entries for event %s", count, eventID)
	return count, nil
}

// ===========================
// 📋 Not-attended: registrations whose ticket never hit the scanner
func (s *service) ListNotAttended(ctx context.Context, eventID string) ([]registration.Registration, error) {
	regs, err := s.regRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	scanned := make(map[string]bool, len(entries))
	for _, entry := range entries {
		scanned[entry.UserID] = true
	}

	notAttended := make([]registration.Registration, 0)
	for _, reg := range regs {
		if !scanned[reg.UserID] {
			notAttended = append(notAttended, reg)
		}
	}
	return notAttended, nil
}

func (s *service) audit(ctx context.Context, eventID *string, action string, details map[string]interface{}, ip string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, nil, eventID, action, details, ip, "success"); err != nil {
		log.Printf("❌ Audit log error: %v", err)
	}
}
