package merchant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/paynow"
	"gorm.io/gorm"
)

// maxNameLength matches the longest merchant name a payload can carry.
const maxNameLength = 25

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return Service{db: db}
}

func (s Service) Settings(ctx context.Context) (*Settings, error) {
	settings := &Settings{}
	if err := s.db.WithContext(ctx).First(settings, "id = ?", settingsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, err
	}
	return settings, nil
}

// Save validates and stores the settings. The identifier is stored in its
// normalized form.
func (s Service) Save(ctx context.Context, settings *Settings) error {
	proxy, err := settings.Proxy()
	if err != nil {
		return err
	}
	if err := paynow.ValidateProxy(proxy); err != nil {
		return err
	}

	settings.Name = strings.TrimSpace(settings.Name)
	if len(settings.Name) > maxNameLength {
		return paynow.ErrMerchantNameTooLong
	}

	settings.ID = settingsID
	settings.Mobile, settings.UEN = "", ""
	switch proxy.Type() {
	case paynow.ProxyTypeMobile:
		settings.Mobile = paynow.FormatMobile(proxy.Value())
	case paynow.ProxyTypeUEN:
		settings.UEN = paynow.NormalizeUEN(proxy.Value())
	}

	current, err := s.Settings(ctx)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return err
	}
	if current != nil {
		settings.CreatedAt = current.CreatedAt
	}

	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return err
	}
	slog.InfoContext(ctx, "merchant settings saved", "proxy_type", proxy.Type())
	return nil
}
