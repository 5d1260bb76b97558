package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================
// In-memory fake repository

type fakeRepo struct {
	events     map[string]*Event
	regCount   int64
	scanCount  int64
	lastUpdate map[string]interface{}
}

func newFakeRepo(events ...*Event) *fakeRepo {
	r := &fakeRepo{events: make(map[string]*Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, e *Event) error {
	r.events[e.ID] = e
	return nil
}

func (r *fakeRepo) CreateActive(_ context.Context, e *Event) error {
	for _, other := range r.events {
		other.IsActive = false
	}
	e.IsActive = true
	r.events[e.ID] = e
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeRepo) FindActive(_ context.Context) (*Event, error) {
	for _, e := range r.events {
		if e.IsActive {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindLatestUpcoming(_ context.Context) (*Event, error) {
	var latest *Event
	for _, e := range r.events {
		if e.Status != StatusUpcoming {
			continue
		}
		if latest == nil || e.EventDate.After(latest.EventDate) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	e, ok := r.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	r.lastUpdate = updates
	applyUpdates(e, updates)
	return nil
}

func (r *fakeRepo) UpdateAndActivate(_ context.Context, id string, updates map[string]interface{}) error {
	target, ok := r.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	for _, e := range r.events {
		e.IsActive = false
	}
	r.lastUpdate = updates
	applyUpdates(target, updates)
	target.IsActive = true
	return nil
}

func (r *fakeRepo) DeleteCascade(_ context.Context, id string) (int64, int64, error) {
	if _, ok := r.events[id]; !ok {
		return 0, 0, apperrors.ErrEventNotFound
	}
	delete(r.events, id)
	return r.regCount, r.scanCount, nil
}

func (r *fakeRepo) ClaimSlot(_ context.Context, _, _ string) (int, error) { return 0, nil }
func (r *fakeRepo) ReleaseSlot(_ context.Context, _, _ string) error      { return nil }

func applyUpdates(e *Event, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "event_name":
			e.EventName = value.(string)
		case "event_date":
			e.EventDate = value.(time.Time)
		case "event_time":
			e.EventTime = value.(string)
		case "description":
			e.Description = value.(string)
		case "venue_name":
			e.Venue.Name = value.(string)
		case "venue_address":
			e.Venue.Address = value.(string)
		case "venue_city":
			e.Venue.City = value.(string)
		case "venue_pincode":
			e.Venue.Pincode = value.(string)
		case "capacity_audience":
			e.Capacity.Audience = value.(int)
		case "capacity_performers":
			e.Capacity.Performers = value.(int)
		case "capacity_total":
			e.Capacity.Total = value.(int)
		case "status":
			e.Status = value.(string)
		case "registration_open":
			e.RegistrationOpen = value.(bool)
		case "is_active":
			e.IsActive = value.(bool)
		}
	}
}

// ============================
// Helpers

func validCreateRequest() *CreateEventRequest {
	return &CreateEventRequest{
		EventName:   "Monsoon Mehfil",
		EventDate:   "2026-09-12",
		EventTime:   "19:00",
		Description: "An evening of shayari and song",
		Venue: Venue{
			Name:    "Bagh-e-Adab Hall",
			Address: "14 MG Road",
			City:    "Pune",
			Pincode: "411001",
		},
	}
}

// ============================
// Tests

func TestCreateEventDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.CreateEvent(context.Background(), validCreateRequest(), nil, "")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(created.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, StatusUpcoming, created.Status)
	assert.Equal(t, CategoryCounts{Audience: 300, Performers: 20, Total: 320}, created.Capacity)
	assert.False(t, created.IsActive)
	assert.False(t, created.RegistrationOpen, "registrationOpen defaults to isActive")
	assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), created.EventDate)
}

func TestCreateEventRegistrationOpenOverride(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	open := true
	req := validCreateRequest()
	req.RegistrationOpen = &open

	created, err := svc.CreateEvent(context.Background(), req, nil, "")
	require.NoError(t, err)
	assert.True(t, created.RegistrationOpen)
}

func TestCreateEventValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	cases := []struct {
		name   string
		mutate func(*CreateEventRequest)
	}{
		{"missing name", func(r *CreateEventRequest) { r.EventName = " " }},
		{"missing date", func(r *CreateEventRequest) { r.EventDate = "" }},
		{"bad date", func(r *CreateEventRequest) { r.EventDate = "12/09/2026" }},
		{"missing time", func(r *CreateEventRequest) { r.EventTime = "" }},
		{"missing description", func(r *CreateEventRequest) { r.Description = "" }},
		{"missing pincode", func(r *CreateEventRequest) { r.Venue.Pincode = "" }},
		{"bad status", func(r *CreateEventRequest) { r.Status = "archived" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			_, err := svc.CreateEvent(context.Background(), req, nil, "")
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateActiveEventDeactivatesOthers(t *testing.T) {
	existing := &Event{ID: uuid.NewString(), EventName: "Old Mehfil", IsActive: true, Status: StatusUpcoming}
	repo := newFakeRepo(existing)
	svc := NewService(repo, nil, nil)

	req := validCreateRequest()
	req.IsActive = true

	created, err := svc.CreateEvent(context.Background(), req, nil, "")
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.True(t, created.RegistrationOpen)

	old, _ := repo.GetByID(context.Background(), existing.ID)
	assert.False(t, old.IsActive, "at most one event may be active")
}

func TestGetActiveEventFallsBackToLatestUpcoming(t *testing.T) {
	older := &Event{ID: uuid.NewString(), EventName: "Spring Mehfil", Status: StatusUpcoming, EventDate: time.Now().Add(24 * time.Hour)}
	newer := &Event{ID: uuid.NewString(), EventName: "Summer Mehfil", Status: StatusUpcoming, EventDate: time.Now().Add(96 * time.Hour)}
	done := &Event{ID: uuid.NewString(), EventName: "Winter Mehfil", Status: StatusCompleted, EventDate: time.Now().Add(200 * time.Hour)}
	repo := newFakeRepo(older, newer, done)
	svc := NewService(repo, nil, nil)

	got, err := svc.GetActiveEvent(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID, "latest upcoming by event date wins")
}

func TestGetActiveEventNone(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	got, err := svc.GetActiveEvent(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateEventVenueMerge(t *testing.T) {
	ev := &Event{
		ID:     uuid.NewString(),
		Status: StatusUpcoming,
		Venue:  Venue{Name: "Bagh-e-Adab Hall", Address: "14 MG Road", City: "Pune", Pincode: "411001"},
	}
	repo := newFakeRepo(ev)
	svc := NewService(repo, nil, nil)

	city := "Mumbai"
	updated, err := svc.UpdateEvent(context.Background(), ev.ID, &UpdateEventRequest{
		Venue: &VenueUpdate{City: &city},
	}, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "Mumbai", updated.Venue.City)
	assert.Equal(t, "Bagh-e-Adab Hall", updated.Venue.Name, "untouched venue fields must survive")
	assert.Equal(t, "14 MG Road", updated.Venue.Address)
	assert.Equal(t, "411001", updated.Venue.Pincode)
}

func TestUpdateEventActivation(t *testing.T) {
	first := &Event{ID: uuid.NewString(), EventName: "First", IsActive: true, Status: StatusUpcoming}
	second := &Event{ID: uuid.NewString(), EventName: "Second", Status: StatusUpcoming}
	repo := newFakeRepo(first, second)
	svc := NewService(repo, nil, nil)

	active := true
	updated, err := svc.UpdateEvent(context.Background(), second.ID, &UpdateEventRequest{IsActive: &active}, nil, "")
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	old, _ := repo.GetByID(context.Background(), first.ID)
	assert.False(t, old.IsActive)
}

func TestUpdateEventUnknown(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	name := "Renamed"
	_, err := svc.UpdateEvent(context.Background(), uuid.NewString(), &UpdateEventRequest{EventName: &name}, nil, "")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestDeleteEventInvalidID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.DeleteEvent(context.Background(), "not-a-uuid", nil, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteEventCascade(t *testing.T) {
	ev := &Event{ID: uuid.NewString(), Status: StatusUpcoming}
	repo := newFakeRepo(ev)
	repo.regCount = 42
	repo.scanCount = 17
	svc := NewService(repo, nil, nil)

	result, err := svc.DeleteEvent(context.Background(), ev.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.DeletedRegistrations)
	assert.Equal(t, int64(17), result.DeletedScanEntries)

	_, err = svc.GetEvent(context.Background(), ev.ID)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestDeleteEventUnknown(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.DeleteEvent(context.Background(), uuid.NewString(), nil, "")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
