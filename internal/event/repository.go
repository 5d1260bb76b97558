package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/niyateshaukh/mehfil-backend/pkg/apperrors"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	CreateActive(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	FindActive(ctx context.Context) (*Event, error)
	FindLatestUpcoming(ctx context.Context) (*Event, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateAndActivate(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteCascade(ctx context.Context, id string) (deletedRegs int64, deletedScans int64, err error)

	// Atomic slot accounting used by the registration engine
	ClaimSlot(ctx context.Context, eventID, category string) (ordinal int, err error)
	ReleaseSlot(ctx context.Context, eventID, category string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// CreateActive inserts the event after flipping is_active off everywhere
// else, all inside one transaction so readers never observe two active
// events.
func (r *repository) CreateActive(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Event{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		e.IsActive = true
		return tx.Create(e).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindActive returns the single active event, or nil when there is none.
// Absence is a valid state, not an error.
func (r *repository) FindActive(ctx context.Context) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindLatestUpcoming is the fallback when no event is active: most recent
// upcoming event by date descending
func (r *repository) FindLatestUpcoming(ctx context.Context) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusUpcoming).
		Order("event_date DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// UpdateAndActivate applies the updates and makes this the single active
// event in one transaction (deactivate-others + activate-target).
func (r *repository) UpdateAndActivate(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Event{}).
			Where("id <> ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		updates["is_active"] = true
		res := tx.Model(&Event{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrEventNotFound
		}
		return nil
	})
}

// DeleteCascade removes the event together with its registrations and
// scan entries. One transaction: the event never disappears while its
// children survive.
func (r *repository) DeleteCascade(ctx context.Context, id string) (int64, int64, error) {
	var deletedRegs, deletedScans int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Event{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrEventNotFound
		}

		regs := tx.Exec(`DELETE FROM registrations WHERE event_id = ?`, id)
		if regs.Error != nil {
			return regs.Error
		}
		deletedRegs = regs.RowsAffected

		scans := tx.Exec(`DELETE FROM scan_entries WHERE event_id = ?`, id)
		if scans.Error != nil {
			return scans.Error
		}
		deletedScans = scans.RowsAffected

		return nil
	})

	return deletedRegs, deletedScans, err
}

// ClaimSlot atomically takes one capacity slot for the category and
// advances the per-event ticket sequence. The WHERE guard makes the
// check-and-increment a single statement, so concurrent registrations
// can never push a category past its capacity. Returns the claimed
// ticket ordinal.
func (r *repository) ClaimSlot(ctx context.Context, eventID, category string) (int, error) {
	regCol, capCol, err := categoryColumns(category)
	if err != nil {
		return 0, err
	}

	var seq int
	query := fmt.Sprintf(`
		UPDATE events
		SET %s = %s + 1,
		    registered_total = registered_total + 1,
		    ticket_seq = ticket_seq + 1,
		    updated_at = NOW()
		WHERE id = ? AND %s < %s
		RETURNING ticket_seq`,
		regCol, regCol, regCol, capCol)

	res := r.db.WithContext(ctx).Raw(query, eventID).Scan(&seq)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrCapacityExceeded
	}
	return seq, nil
}

// ReleaseSlot gives a claimed slot back (compensation when the
// registration insert loses a duplicate-phone race). The ticket sequence
// is deliberately not rewound.
func (r *repository) ReleaseSlot(ctx context.Context, eventID, category string) error {
	regCol, _, err := categoryColumns(category)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE events
		SET %s = %s - 1,
		    registered_total = registered_total - 1,
		    updated_at = NOW()
		WHERE id = ? AND %s > 0`,
		regCol, regCol, regCol)

	return r.db.WithContext(ctx).Exec(query, eventID).Error
}

func categoryColumns(category string) (regCol, capCol string, err error) {
	switch category {
	case CategoryPerformer:
		return "registered_performers", "capacity_performers", nil
	case CategoryAudience:
		return "registered_audience", "capacity_audience", nil
	default:
		return "", "", fmt.Errorf("unknown registration category: %s", category)
	}
}
