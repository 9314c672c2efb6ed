// Package cmdutil holds the setup shared by the binaries.
package cmdutil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/api"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/merchant"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Environment string

const (
	LocalEnvironment Environment = "LOCAL"
	AWSEnvironment   Environment = "AWS"
)

func AWSConfig(ctx context.Context, env Environment, localEndpoint string) (*aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config, %w", err)
	}

	if env == LocalEnvironment {
		cfg.BaseEndpoint = aws.String(localEndpoint)
		cfg.Credentials = credentials.NewStaticCredentialsProvider("test", "test", "")
	}
	return &cfg, nil
}

// DBFromSecret connects to the database described by a Secrets Manager JSON
// secret.
func DBFromSecret(ctx context.Context, sm *secretsmanager.Client, secretName string) (*gorm.DB, error) {
	type dbSecret struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Host     string `json:"host"`
		Port     int    `json:"port"`
		DBName   string `json:"dbname"`
		SSLMode  string `json:"sslmode"`
	}

	slog.Info("retrieving database credentials from secrets manager")
	resp, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	var secret dbSecret
	if err := json.Unmarshal([]byte(aws.ToString(resp.SecretString)), &secret); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	if secret.SSLMode == "" {
		secret.SSLMode = "require"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=5",
		secret.Host, secret.Port, secret.Username, secret.Password, secret.DBName, secret.SSLMode)
	return DB(ctx, dsn)
}

// DB connects to the postgres database at dsn and checks it is reachable.
func DB(ctx context.Context, dsn string) (*gorm.DB, error) {
	slog.Info("connecting to database")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NowFunc: timeutil.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("successfully connected to database")
	return db, nil
}

func TLSCertFromSSM(ctx context.Context, ssmClient *ssm.Client, certParamName, keyParamName string) (tls.Certificate, error) {
	certOut, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(certParamName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not fetch cert from SSM (%s): %w", certParamName, err)
	}

	keyOut, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(keyParamName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not fetch key from SSM (%s): %w", keyParamName, err)
	}

	certPEM := []byte(aws.ToString(certOut.Parameter.Value))
	keyPEM := []byte(aws.ToString(keyOut.Parameter.Value))

	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("could not parse TLS certificate: %w", err)
	}

	return tlsCert, nil
}

// SeedSettingsFromEnv returns the merchant settings configured through
// MERCHANT_NAME, PAYNOW_MOBILE and PAYNOW_UEN, or nil when no identifier is
// set.
func SeedSettingsFromEnv() *merchant.Settings {
	settings := &merchant.Settings{
		Name:           EnvValue("MERCHANT_NAME", ""),
		Mobile:         EnvValue("PAYNOW_MOBILE", ""),
		UEN:            EnvValue("PAYNOW_UEN", ""),
		EditableAmount: EnvValue("PAYNOW_EDITABLE_AMOUNT", "false") == "true",
	}
	if settings.Mobile == "" && settings.UEN == "" {
		return nil
	}
	return settings
}

func Logger() *slog.Logger {
	return slog.New(&logCtxHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			// Make sure time is logged in UTC.
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == slog.TimeKey {
					return slog.Attr{Key: slog.TimeKey, Value: slog.TimeValue(attr.Value.Time().UTC())}
				}
				return attr
			},
		}),
	})
}

type logCtxHandler struct {
	slog.Handler
}

func (h *logCtxHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID, ok := ctx.Value(api.CtxKeyRequestID).(string); ok {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *logCtxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logCtxHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *logCtxHandler) WithGroup(name string) slog.Handler {
	return &logCtxHandler{Handler: h.Handler.WithGroup(name)}
}

// LoggingMiddleware logs the start and the end of every request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "request received",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		start := timeutil.Now()
		defer func() {
			slog.InfoContext(r.Context(), "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
			)
		}()
		next.ServeHTTP(w, r)
	})
}

// EnvValue retrieves an environment variable or returns a fallback value if not found.
func EnvValue[T ~string](key string, fallback T) T {
	if value, exists := os.LookupEnv(key); exists {
		return T(value)
	}
	return fallback
}
