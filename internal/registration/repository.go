package registration

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert trips a unique index - either
// the (event_id, phone) pair or the ticket id itself
var ErrDuplicate = errors.New("duplicate registration")

type Repository interface {
	Create(ctx context.Context, reg *Registration) error
	FindByEventAndPhone(ctx context.Context, eventID, phone string) (*Registration, error)
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	FindByUserID(ctx context.Context, userID string) (*Registration, error)
	Lookup(ctx context.Context, q LookupQuery) (*Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]Registration, error)
	MarkEmailSent(ctx context.Context, userID, email string) error
	MarkCheckedIn(ctx context.Context, eventID, userID, checkedInBy string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, reg *Registration) error {
	err := r.db.WithContext(ctx).Create(reg).Error
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repository) FindByEventAndPhone(ctx context.Context, eventID, phone string) (*Registration, error) {
	return r.findOne(ctx, r.db.Where("event_id = ? AND phone = ?", eventID, phone))
}

func (r *repository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error) {
	return r.findOne(ctx, r.db.Where("event_id = ? AND user_id = ?", eventID, userID))
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Registration, error) {
	return r.findOne(ctx, r.db.Where("user_id = ?", userID))
}

// Lookup prefers userId (scanner path), then phone/email
func (r *repository) Lookup(ctx context.Context, q LookupQuery) (*Registration, error) {
	query := r.db
	if q.EventID != "" {
		query = query.Where("event_id = ?", q.EventID)
	}

	switch {
	case q.UserID != "":
		query = query.Where("user_id = ?", q.UserID)
	case q.Phone != "" && q.Email != "":
		query = query.Where("phone = ? OR email = ?", q.Phone, q.Email)
	case q.Phone != "":
		query = query.Where("phone = ?", q.Phone)
	case q.Email != "":
		query = query.Where("email = ?", q.Email)
	}

	return r.findOne(ctx, query)
}

func (r *repository) ListByEvent(ctx context.Context, eventID string) ([]Registration, error) {
	var regs []Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *repository) MarkEmailSent(ctx context.Context, userID, email string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&Registration{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"email":         email,
			"email_sent":    true,
			"email_sent_at": now,
		}).Error
}

func (r *repository) MarkCheckedIn(ctx context.Context, eventID, userID, checkedInBy string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Updates(map[string]interface{}{
			"checked_in":    true,
			"checked_in_at": at,
			"checked_in_by": checkedInBy,
		}).Error
}

func (r *repository) findOne(ctx context.Context, query *gorm.DB) (*Registration, error) {
	var reg Registration
	err := query.WithContext(ctx).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
