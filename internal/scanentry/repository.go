package scanentry

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate signals that the (event_id, user_id) unique index
// rejected the insert - i.e. the ticket was already scanned
var ErrDuplicate = errors.New("duplicate scan entry")

type Repository interface {
	Create(ctx context.Context, entry *ScanEntry) error
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*ScanEntry, error)
	ListByEvent(ctx context.Context, eventID string) ([]ScanEntry, error)
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, entry *ScanEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*ScanEntry, error) {
	var entry ScanEntry
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByEvent returns the entries most-recent-first for the live
// check-in dashboard
func (r *repository) ListByEvent(ctx context.Context, eventID string) ([]ScanEntry, error) {
	var entries []ScanEntry
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("scanned_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&ScanEntry{})
	return res.RowsAffected, res.Error
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
