package merchant

import (
	"time"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/paynow"
)

// settingsID is the key of the single settings row.
const settingsID = "default"

// Settings is the PayNow identity of the merchant. Exactly one of Mobile
// and UEN is set.
type Settings struct {
	ID     string `gorm:"primaryKey"`
	Name   string
	Mobile string
	UEN    string `gorm:"column:uen"`
	// EditableAmount is the default for new orders.
	EditableAmount bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Settings) TableName() string {
	return "merchant_settings"
}

func (s Settings) Proxy() (paynow.Proxy, error) {
	return paynow.NewProxy(s.Mobile, s.UEN)
}
