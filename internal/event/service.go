package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niyateshaukh/mehfil-backend/internal/auditlog"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
	"github.com/redis/go-redis/v9"
)

const (
	activeEventCacheKey = "mehfil:active_event"
	activeEventCacheTTL = 30 * time.Second
)

type Service interface {
	GetActiveEvent(ctx context.Context) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, req *CreateEventRequest, adminID *uint, ip string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest, adminID *uint, ip string) (*Event, error)
	DeleteEvent(ctx context.Context, id string, adminID *uint, ip string) (*DeleteEventResult, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	cache    *redis.Client // nil disables the active-event cache
}

func NewService(repo Repository, auditSvc auditlog.Service, cache *redis.Client) Service {
	return &service{repo: repo, auditSvc: auditSvc, cache: cache}
}

// ===========================
// 🔍 Active event lookup (homepage hot path, read-through cached)
func (s *service) GetActiveEvent(ctx context.Context) (*Event, error) {
	if cached := s.cacheGet(ctx); cached != nil {
		return cached, nil
	}

	e, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if e == nil {
		// Fallback: latest upcoming by eventDate desc
		e, err = s.repo.FindLatestUpcoming(ctx)
		if err != nil {
			return nil, err
		}
	}
	if e == nil {
		return nil, nil
	}

	s.cacheSet(ctx, e)
	return e, nil
}

func (s *service) GetEvent(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// ===========================
// 🎯 Create Event
func (s *service) CreateEvent(ctx context.Context, req *CreateEventRequest, adminID *uint, ip string) (*Event, error) {
	eventName := strings.TrimSpace(req.EventName)
	if eventName == "" {
		return nil, apperrors.NewValidation("eventName", "eventName is required")
	}

	eventDate, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, apperrors.NewValidation("eventDate", "valid eventDate is required")
	}

	eventTime := strings.TrimSpace(req.EventTime)
	if eventTime == "" {
		return nil, apperrors.NewValidation("eventTime", "eventTime is required")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.NewValidation("description", "description is required")
	}

	venue := Venue{
		Name:    strings.TrimSpace(req.Venue.Name),
		Address: strings.TrimSpace(req.Venue.Address),
		City:    strings.TrimSpace(req.Venue.City),
		Pincode: strings.TrimSpace(req.Venue.Pincode),
	}
	if venue.Pincode == "" {
		return nil, apperrors.NewValidation("venue.pincode", "venue.pincode is required")
	}

	status := req.Status
	if status == "" {
		status = StatusUpcoming
	}
	if !validStatus(status) {
		return nil, apperrors.NewValidation("status", "invalid status: %s", status)
	}

	capacity := CategoryCounts{Audience: 300, Performers: 20, Total: 320}
	if req.Capacity != nil {
		capacity = *req.Capacity
	}

	// registrationOpen follows isActive unless the client says otherwise
	registrationOpen := req.IsActive
	if req.RegistrationOpen != nil {
		registrationOpen = *req.RegistrationOpen
	}

	e := &Event{
		ID:               uuid.NewString(),
		EventName:        eventName,
		EventDate:        eventDate,
		EventTime:        eventTime,
		Venue:            venue,
		Description:      description,
		ContactEmail:     strings.TrimSpace(req.ContactEmail),
		Photos:           req.Photos,
		Capacity:         capacity,
		Status:           status,
		IsActive:         req.IsActive,
		RegistrationOpen: registrationOpen,
	}

	if req.IsActive {
		err = s.repo.CreateActive(ctx, e)
	} else {
		err = s.repo.Create(ctx, e)
	}

	s.audit(ctx, adminID, &e.ID, "EVENT_CREATED", map[string]interface{}{
		"event_name": e.EventName,
		"is_active":  e.IsActive,
	}, ip, err)

	if err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx)
	log.Printf("✅ Event created: %s (%s)", e.ID, e.EventName)
	return e, nil
}

// ===========================
// 🛠 Update Event - merge semantics, nil request fields leave the stored
// values alone; nested venue merges key-by-key
func (s *service) UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest, adminID *uint, ip string) (*Event, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.EventName != nil {
		name := strings.TrimSpace(*req.EventName)
		if name == "" {
			return nil, apperrors.NewValidation("eventName", "eventName cannot be empty")
		}
		updates["event_name"] = name
	}
	if req.EventDate != nil {
		date, err := parseEventDate(*req.EventDate)
		if err != nil {
			return nil, apperrors.NewValidation("eventDate", "valid eventDate is required")
		}
		updates["event_date"] = date
	}
	if req.EventTime != nil {
		updates["event_time"] = strings.TrimSpace(*req.EventTime)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = strings.TrimSpace(*req.ContactEmail)
	}
	if req.Photos != nil {
		encoded, err := json.Marshal(req.Photos)
		if err != nil {
			return nil, fmt.Errorf("failed to encode photos: %w", err)
		}
		updates["photos"] = string(encoded)
	}
	if req.Venue != nil {
		merged := mergeVenue(current.Venue, req.Venue)
		updates["venue_name"] = merged.Name
		updates["venue_address"] = merged.Address
		updates["venue_city"] = merged.City
		updates["venue_pincode"] = merged.Pincode
	}
	if req.Capacity != nil {
		updates["capacity_audience"] = req.Capacity.Audience
		updates["capacity_performers"] = req.Capacity.Performers
		updates["capacity_total"] = req.Capacity.Total
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, apperrors.NewValidation("status", "invalid status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.RegistrationOpen != nil {
		updates["registration_open"] = *req.RegistrationOpen
	}

	activate := req.IsActive != nil && *req.IsActive
	if req.IsActive != nil && !activate {
		updates["is_active"] = false
	}

	if activate {
		err = s.repo.UpdateAndActivate(ctx, id, updates)
	} else if len(updates) > 0 {
		err = s.repo.Update(ctx, id, updates)
	}

	s.audit(ctx, adminID, &id, "EVENT_UPDATED", map[string]interface{}{
		"event_name": current.EventName,
		"activated":  activate,
	}, ip, err)

	if err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

// ===========================
// ❌ Delete Event - cascades to registrations and scan entries
func (s *service) DeleteEvent(ctx context.Context, id string, adminID *uint, ip string) (*DeleteEventResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewValidation("id", "invalid event ID format")
	}

	deletedRegs, deletedScans, err := s.repo.DeleteCascade(ctx, id)

	s.audit(ctx, adminID, &id, "EVENT_DELETED", map[string]interface{}{
		"deleted_registrations": deletedRegs,
		"deleted_scan_entries":  deletedScans,
	}, ip, err)

	if err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx)
	log.Printf("✅ Event %s deleted (%d registrations, %d scan entries)", id, deletedRegs, deletedScans)
	return &DeleteEventResult{
		DeletedRegistrations: deletedRegs,
		DeletedScanEntries:   deletedScans,
	}, nil
}

// -----------------------------------------
// Cache helpers
// -----------------------------------------

func (s *service) cacheGet(ctx context.Context) *Event {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, activeEventCacheKey).Result()
	if err != nil {
		return nil
	}
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil
	}
	return &e
}

func (s *service) cacheSet(ctx context.Context, e *Event) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, activeEventCacheKey, raw, activeEventCacheTTL).Err(); err != nil {
		log.Printf("⚠️ active event cache set failed: %v", err)
	}
}

func (s *service) cacheInvalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, activeEventCacheKey).Err(); err != nil {
		log.Printf("⚠️ active event cache invalidation failed: %v", err)
	}
}

func (s *service) audit(ctx context.Context, adminID *uint, eventID *string, action string, details map[string]interface{}, ip string, opErr error) {
	if s.auditSvc == nil {
		return
	}
	status := "success"
	if opErr != nil {
		status = "failure"
		details["error"] = opErr.Error()
	}
	if err := s.auditSvc.LogAction(ctx, adminID, eventID, action, details, ip, status); err != nil {
		log.Printf("❌ Audit log error: %v", err)
	}
}

func mergeVenue(existing Venue, incoming *VenueUpdate) Venue {
	merged := existing
	if incoming.Name != nil {
		merged.Name = strings.TrimSpace(*incoming.Name)
	}
	if incoming.Address != nil {
		merged.Address = strings.TrimSpace(*incoming.Address)
	}
	if incoming.City != nil {
		merged.City = strings.TrimSpace(*incoming.City)
	}
	if incoming.Pincode != nil {
		merged.Pincode = strings.TrimSpace(*incoming.Pincode)
	}
	return merged
}

func parseEventDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", input)
}

func validStatus(status string) bool {
	switch status {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
