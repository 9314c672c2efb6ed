package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference string
	// Amount in SGD.
	Amount         decimal.Decimal `gorm:"type:numeric(12,2)"`
	EditableAmount bool
	Status         Status
	// QRPayload is the PayNow payload shown to the customer.
	QRPayload   string `gorm:"column:qr_payload"`
	PaidAt      *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Order) TableName() string {
	return "orders"
}

type Filter struct {
	Status Status
}
