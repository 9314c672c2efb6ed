package order

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/merchant"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/page"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/paynow"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db              *gorm.DB
	merchantService merchant.Service
}

func NewService(db *gorm.DB, merchantService merchant.Service) Service {
	return Service{
		db:              db,
		merchantService: merchantService,
	}
}

// Create encodes the PayNow payload of the order with the merchant settings
// and stores both. A reference is generated when the order has none, and a
// nil editableAmount takes the merchant default.
func (s Service) Create(ctx context.Context, o *Order, editableAmount *bool) error {
	settings, err := s.merchantService.Settings(ctx)
	if err != nil {
		return err
	}

	o.EditableAmount = settings.EditableAmount
	if editableAmount != nil {
		o.EditableAmount = *editableAmount
	}

	proxy, err := settings.Proxy()
	if err != nil {
		return err
	}

	if o.Reference == "" {
		o.Reference = newReference()
	}

	payload, err := paynow.Encode(paynow.PaymentIntent{
		Payee:          proxy,
		Amount:         o.Amount,
		Reference:      o.Reference,
		EditableAmount: o.EditableAmount,
		MerchantName:   settings.Name,
	})
	if err != nil {
		return err
	}

	o.ID = uuid.New()
	o.Status = StatusPending
	o.QRPayload = payload
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return err
	}

	slog.InfoContext(ctx, "order created", "order_id", o.ID, "reference", o.Reference, "amount", o.Amount.StringFixed(2))
	return nil
}

func (s Service) Order(ctx context.Context, id uuid.UUID) (*Order, error) {
	o := &Order{}
	if err := s.db.WithContext(ctx).First(o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s Service) Orders(ctx context.Context, filter Filter, pag page.Pagination) (page.Page[*Order], error) {
	query := s.db.WithContext(ctx).Model(&Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	// Share the conditions between the page and the count queries.
	query = query.Session(&gorm.Session{})

	var orders []*Order
	if err := query.
		Limit(pag.Limit()).
		Offset(pag.Offset()).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return page.Page[*Order]{}, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return page.Page[*Order]{}, err
	}

	return page.New(orders, pag, int(total)), nil
}

// Cancel moves a pending order to cancelled.
func (s Service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	now := timeutil.Now()
	return s.transition(ctx, id, StatusCancelled, map[string]any{"cancelled_at": now})
}

// MarkPaid moves a pending order to paid.
func (s Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Order, error) {
	now := timeutil.Now()
	return s.transition(ctx, id, StatusPaid, map[string]any{"paid_at": now})
}

func (s Service) transition(ctx context.Context, id uuid.UUID, to Status, fields map[string]any) (*Order, error) {
	fields["status"] = to

	result := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}

	o, err := s.Order(ctx, id)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		return nil, errorutil.Format("%w: order is %s, expected %s", ErrInvalidStatus, o.Status, StatusPending)
	}

	slog.InfoContext(ctx, "order status updated", "order_id", id, "status", to)
	return o, nil
}

// CancelStale cancels the orders still pending that were created before the
// given time and returns how many were cancelled.
func (s Service) CancelStale(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("status = ? AND created_at < ?", StatusPending, before).
		Updates(map[string]any{"status": StatusCancelled, "cancelled_at": timeutil.Now()})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		slog.InfoContext(ctx, "stale orders cancelled", "count", result.RowsAffected, "created_before", before)
	}
	return result.RowsAffected, nil
}

// newReference generates a bill reference such as ORD3F2A9C1B.
func newReference() string {
	return "ORD" + strings.ToUpper(uuid.NewString()[:8])
}
