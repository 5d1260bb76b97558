package scanentry

import (
	"context"
	"sync"
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
// In-memory fakes

type fakeScanRepo struct {
	mu      sync.Mutex
	entries []*ScanEntry
}

// Create enforces the (event_id, user_id) unique index: under a racing
// duplicate exactly one insert wins
func (r *fakeScanRepo) Create(_ context.Context, entry *ScanEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.EventID == entry.EventID && existing.UserID == entry.UserID {
			return ErrDuplicate
		}
	}
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeScanRepo) FindByEventAndUser(_ context.Context, eventID, userID string) (*ScanEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.EventID == eventID && entry.UserID == userID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeScanRepo) ListByEvent(_ context.Context, eventID string) ([]ScanEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ScanEntry
	for _, entry := range r.entries {
		if entry.EventID == eventID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeScanRepo) DeleteByEvent(_ context.Context, eventID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*ScanEntry
	var deleted int64
	for _, entry := range r.entries {
		if entry.EventID == eventID {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return deleted, nil
}

type fakeRegRepo struct {
	mu   sync.Mutex
	regs map[string]*registration.Registration // keyed by user id
}

func newFakeRegRepo(regs ...*registration.Registration) *fakeRegRepo {
	r := &fakeRegRepo{regs: make(map[string]*registration.Registration)}
	for _, reg := range regs {
		r.regs[reg.UserID] = reg
	}
	return r
}

func (r *fakeRegRepo) Create(_ context.Context, reg *registration.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs[reg.UserID] = reg
	return nil
}

func (r *fakeRegRepo) FindByEventAndPhone(_ context.Context, eventID, phone string) (*registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.Phone == phone {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRegRepo) FindByEventAndUser(_ context.Context, eventID, userID string) (*registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[userID]
	if !ok || reg.EventID != eventID {
		return nil, nil
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegRepo) FindByUserID(_ context.Context, userID string) (*registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[userID]
	if !ok {
		return nil, nil
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegRepo) Lookup(_ context.Context, q registration.LookupQuery) (*registration.Registration, error) {
	return r.FindByUserID(context.Background(), q.UserID)
}

func (r *fakeRegRepo) ListByEvent(_ context.Context, eventID string) ([]registration.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []registration.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (r *fakeRegRepo) MarkEmailSent(_ context.Context, userID, email string) error {
	return nil
}

func (r *fakeRegRepo) MarkCheckedIn(_ context.Context, eventID, userID, checkedInBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.regs[userID]; ok && reg.EventID == eventID {
		reg.CheckedIn = true
		reg.CheckedInAt = &at
		reg.CheckedInBy = &checkedInBy
	}
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

func (r *fakeEventRepo) FindActive(_ context.Context) (*event.Event, error)         { return r.event, nil }
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

// ============================
// Helpers

func testRegistration(userID, phone string) *registration.Registration {
	return &registration.Registration{
		UserID:           userID,
		EventID:          testEventID,
		Name:             "Guest " + userID,
		Phone:            phone,
		RegistrationType: "audience",
		RegisteredAt:     time.Now(),
	}
}

func newTestService(regs ...*registration.Registration) (Service, *fakeScanRepo, *fakeRegRepo) {
	scanRepo := &fakeScanRepo{}
	regRepo := newFakeRegRepo(regs...)
	eventRepo := &fakeEventRepo{event: &event.Event{ID: testEventID, EventName: "Monsoon Mehfil"}}
	svc := NewService(scanRepo, regRepo, eventRepo, nil)
	return svc, scanRepo, regRepo
}

// ============================
// Tests

func TestRecordScan(t *testing.T) {
	svc, _, regRepo := newTestService(testRegistration("A0001", "9876543210"))

	entry, err := svc.RecordScan(context.Background(), testEventID, "A0001", "gate-1", "")
	require.NoError(t, err)
	assert.Equal(t, "A0001", entry.UserID)
	assert.Equal(t, "Guest A0001", entry.Name)
	assert.Equal(t, "audience", entry.RegistrationType)
	assert.False(t, entry.ScannedAt.IsZero())

	reg, _ := regRepo.FindByUserID(context.Background(), "A0001")
	assert.True(t, reg.CheckedIn)
	require.NotNil(t, reg.CheckedInBy)
	assert.Equal(t, "gate-1", *reg.CheckedInBy)
}

func TestRecordScanDefaultsOperator(t *testing.T) {
	svc, _, regRepo := newTestService(testRegistration("A0001", "9876543210"))

	_, err := svc.RecordScan(context.Background(), testEventID, "A0001", "", "")
	require.NoError(t, err)

	reg, _ := regRepo.FindByUserID(context.Background(), "A0001")
	require.NotNil(t, reg.CheckedInBy)
	assert.Equal(t, DefaultOperator, *reg.CheckedInBy)
}

func TestRecordScanInvalidTicket(t *testing.T) {
	svc, _, _ := newTestService(testRegistration("A0001", "9876543210"))

	_, err := svc.RecordScan(context.Background(), testEventID, "A9999", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTicket)

	// Valid ticket for a different event is just as invalid
	_, err = svc.RecordScan(context.Background(), "11111111-2222-3333-4444-555555555555", "A0001", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTicket)
}

func TestRecordScanRejectsSecondScan(t *testing.T) {
	svc, _, _ := newTestService(testRegistration("A0001", "9876543210"))

	first, err := svc.RecordScan(context.Background(), testEventID, "A0001", "", "")
	require.NoError(t, err)

	_, err = svc.RecordScan(context.Background(), testEventID, "A0001", "", "")
	scanned, ok := apperrors.AsAlreadyScanned(err)
	require.True(t, ok, "expected AlreadyScannedError, got %v", err)
	assert.Equal(t, first.ScannedAt.Unix(), scanned.ScannedAt.Unix())
}

func TestConcurrentScansAdmitOnce(t *testing.T) {
	svc, scanRepo, _ := newTestService(testRegistration("A0001", "9876543210"))

	const workers = 16
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordScan(context.Background(), testEventID, "A0001", "", "")
		}(i)
	}
	wg.Wait()

	var admitted, rejected int
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		_, ok := apperrors.AsAlreadyScanned(err)
		require.True(t, ok, "unexpected error: %v", err)
		rejected++
	}
	assert.Equal(t, 1, admitted, "exactly one scan must be admitted")
	assert.Equal(t, workers-1, rejected)

	entries, _ := scanRepo.ListByEvent(context.Background(), testEventID)
	assert.Len(t, entries, 1)
}

func TestListNotAttended(t *testing.T) {
	svc, _, _ := newTestService(
		testRegistration("A0001", "9000000001"),
		testRegistration("A0002", "9000000002"),
		testRegistration("A0003", "9000000003"),
	)

	_, err := svc.RecordScan(context.Background(), testEventID, "A0002", "", "")
	require.NoError(t, err)

	notAttended, err := svc.ListNotAttended(context.Background(), testEventID)
	require.NoError(t, err)
	require.Len(t, notAttended, 2)

	ids := []string{notAttended[0].UserID, notAttended[1].UserID}
	assert.ElementsMatch(t, []string{"A0001", "A0003"}, ids)
}

func TestDeleteByEvent(t *testing.T) {
	svc, _, _ := newTestService(
		testRegistration("A0001", "9000000001"),
		testRegistration("A0002", "9000000002"),
	)

	_, err := svc.RecordScan(context.Background(), testEventID, "A0001", "", "")
	require.NoError(t, err)
	_, err = svc.RecordScan(context.Background(), testEventID, "A0002", "", "")
	require.NoError(t, err)

	count, err := svc.DeleteByEvent(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	entries, _, err := svc.ListEntries(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
