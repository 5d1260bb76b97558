package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/internal/registration"
	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventID = "9f0e4a22-7a1d-4f7e-9a3c-1b2d3e4f5a6b"

// ============================
// Fakes

type fakeRegRepo struct {
	reg        *registration.Registration
	markedUser string
	markedMail string
}

func (r *fakeRegRepo) Create(_ context.Context, _ *registration.Registration) error { return nil }

func (r *fakeRegRepo) FindByEventAndPhone(_ context.Context, _, _ string) (*registration.Registration, error) {
	return nil, nil
}

func (r *fakeRegRepo) FindByEventAndUser(_ context.Context, _, _ string) (*registration.Registration, error) {
	return nil, nil
}

func (r *fakeRegRepo) FindByUserID(_ context.Context, userID string) (*registration.Registration, error) {
	if r.reg != nil && r.reg.UserID == userID {
		copied := *r.reg
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeRegRepo) Lookup(_ context.Context, _ registration.LookupQuery) (*registration.Registration, error) {
	return nil, nil
}

func (r *fakeRegRepo) ListByEvent(_ context.Context, _ string) ([]registration.Registration, error) {
	return nil, nil
}

func (r *fakeRegRepo) MarkEmailSent(_ context.Context, userID, email string) error {
	r.markedUser = userID
	r.markedMail = email
	return nil
}

func (r *fakeRegRepo) MarkCheckedIn(_ context.Context, _, _, _ string, _ time.Time) error {
	return nil
}

type fakeEventRepo struct {
	event *event.Event
}

func (r *fakeEventRepo) Create(_ context.Context, _ *event.Event) error       { return nil }
func (r *fakeEventRepo) CreateActive(_ context.Context, _ *event.Event) error { return nil }

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*event.Event, error) {
	if r.event == nil || r.event.ID != id {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *r.event
	return &copied, nil
}

func (r *fakeEventRepo) FindActive(_ context.Context) (*event.Event, error)         { return nil, nil }
func (r *fakeEventRepo) FindLatestUpcoming(_ context.Context) (*event.Event, error) { return nil, nil }
func (r *fakeEventRepo) Update(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}
func (r *fakeEventRepo) UpdateAndActivate(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}
func (r *fakeEventRepo) DeleteCascade(_ context.Context, _ string) (int64, int64, error) {
	return 0, 0, nil
}
func (r *fakeEventRepo) ClaimSlot(_ context.Context, _, _ string) (int, error) { return 0, nil }
func (r *fakeEventRepo) ReleaseSlot(_ context.Context, _, _ string) error      { return nil }

type fakeChannel struct {
	to      []string
	subject string
	body    string
	err     error
}

func (c *fakeChannel) Send(to []string, subject, body string) error {
	if c.err != nil {
		return c.err
	}
	c.to = to
	c.subject = subject
	c.body = body
	return nil
}

// ============================
// Helpers

func testTicket() (*registration.Registration, *event.Event) {
	perfType := "shayari"
	reg := &registration.Registration{
		UserID:           "P0003",
		EventID:          testEventID,
		Name:             "Rahim",
		Phone:            "9000000001",
		RegistrationType: "performer",
		PerformanceType:  &perfType,
		QRCode:           "data:image/png;base64,aGVsbG8=",
		RegisteredAt:     time.Now(),
	}
	ev := &event.Event{
		ID:        testEventID,
		EventName: "Monsoon Mehfil",
		EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		EventTime: "19:00",
		Venue:     event.Venue{Name: "Bagh-e-Adab Hall", City: "Pune"},
	}
	return reg, ev
}

// ============================
// Tests

func TestSendTicketEmail(t *testing.T) {
	reg, ev := testTicket()
	regRepo := &fakeRegRepo{reg: reg}
	channel := &fakeChannel{}
	svc := NewService(regRepo, &fakeEventRepo{event: ev}, channel)

	err := svc.SendTicketEmail(context.Background(), "P0003", "rahim@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"rahim@example.com"}, channel.to)
	assert.Contains(t, channel.subject, "Monsoon Mehfil")
	assert.Contains(t, channel.subject, "P0003")
	assert.Contains(t, channel.body, reg.QRCode)
	assert.Contains(t, channel.body, "Rahim")
	assert.Contains(t, channel.body, "Bagh-e-Adab Hall, Pune")

	assert.Equal(t, "P0003", regRepo.markedUser)
	assert.Equal(t, "rahim@example.com", regRepo.markedMail)
}

func TestSendTicketEmailUnknownRegistration(t *testing.T) {
	svc := NewService(&fakeRegRepo{}, &fakeEventRepo{}, &fakeChannel{})

	err := svc.SendTicketEmail(context.Background(), "A9999", "x@example.com")
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}

func TestSendTicketEmailMissingEvent(t *testing.T) {
	reg, _ := testTicket()
	svc := NewService(&fakeRegRepo{reg: reg}, &fakeEventRepo{}, &fakeChannel{})

	err := svc.SendTicketEmail(context.Background(), "P0003", "x@example.com")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestSendTicketEmailTransportFailure(t *testing.T) {
	reg, ev := testTicket()
	regRepo := &fakeRegRepo{reg: reg}
	svc := NewService(regRepo, &fakeEventRepo{event: ev}, &fakeChannel{err: errors.New("relay refused")})

	err := svc.SendTicketEmail(context.Background(), "P0003", "x@example.com")
	require.Error(t, err)
	assert.Empty(t, regRepo.markedUser, "failed delivery must not mark email_sent")
}
