package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
	"gorm.io/gorm"
)

// recordTTL is how long a key keeps replaying its first response.
const recordTTL = 24 * time.Hour

var (
	ErrNotFound        = errorutil.New("idempotency record not found")
	ErrPayloadMismatch = errorutil.New("request body does not match the first request sent with this idempotency key")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return Service{db: db}
}

func (s Service) Response(ctx context.Context, id string) (*Record, error) {
	rec := &Record{}
	err := s.db.WithContext(ctx).
		Where("id = ? AND created_at > ?", id, timeutil.Now().Add(-recordTTL)).
		First(rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Lookup returns the live record for key, or ErrPayloadMismatch if it was
// first used with a different payload.
func (s Service) Lookup(ctx context.Context, key string, payload []byte) (*Record, error) {
	rec, err := s.Response(ctx, key)
	if err != nil {
		return nil, err
	}
	if !rec.matches(payload) {
		return nil, ErrPayloadMismatch
	}
	return rec, nil
}

// Create stores rec, replacing an expired record with the same key.
func (s Service) Create(ctx context.Context, rec *Record) error {
	rec.CreatedAt = timeutil.Now()
	return s.db.WithContext(ctx).Save(rec).Error
}

// DeleteExpired removes the records that no longer replay their response.
func (s Service) DeleteExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at <= ?", timeutil.Now().Add(-recordTTL)).
		Delete(&Record{})
	return result.RowsAffected, result.Error
}
