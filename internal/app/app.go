// Package app wires the services and HTTP servers into a single handler.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/api"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/idempotency"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/merchant"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/order"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/qrimage"
	"gorm.io/gorm"
)

type Config struct {
	// Host is the public base URL used in response links.
	Host string
	// FrontHost is the origin allowed by CORS.
	FrontHost     string
	QROptions     qrimage.Options
	IsDevelopment bool
}

// Models lists every model persisted by the application.
func Models() []any {
	return []any{&merchant.Settings{}, &order.Order{}, &idempotency.Record{}}
}

// NewHandler builds the HTTP handler of the whole application.
func NewHandler(db *gorm.DB, cfg Config) http.Handler {
	merchantService := merchant.NewService(db)
	orderService := order.NewService(db, merchantService)
	idempotencyService := idempotency.NewService(db)

	apiMux := http.NewServeMux()
	merchant.NewServer(cfg.Host, merchantService).Register(apiMux)
	order.NewServer(cfg.Host, orderService, idempotencyService, cfg.QROptions).Register(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.SwaggerMiddleware(api.Swagger, api.ErrCodeInvalidRequest)(apiMux))
	mux.Handle("GET /healthz", healthHandler(db))

	var handler http.Handler = mux
	handler = api.CORSMiddleware(cfg.FrontHost)(handler)
	handler = api.SecureMiddleware(cfg.IsDevelopment)(handler)
	handler = api.RequestIDMiddleware(handler)
	return handler
}

// SeedSettings stores the given settings unless the merchant already has
// some.
func SeedSettings(ctx context.Context, db *gorm.DB, settings *merchant.Settings) error {
	service := merchant.NewService(db)
	if _, err := service.Settings(ctx); !errors.Is(err, merchant.ErrNotConfigured) {
		return err
	}

	slog.InfoContext(ctx, "seeding merchant settings")
	return service.Save(ctx, settings)
}

func healthHandler(db *gorm.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
