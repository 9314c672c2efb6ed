package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/cmd/cmdutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/idempotency"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/merchant"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/order"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
)

var (
	Env          = cmdutil.EnvValue("ENV", cmdutil.LocalEnvironment)
	DBSecretName = cmdutil.EnvValue("DB_SECRET_NAME", "paynow/db-credentials")
	AWSEndpoint  = cmdutil.EnvValue("AWS_ENDPOINT_URL", "http://localhost:4566")
	// OrderTTL is how long an order may stay pending before it is cancelled.
	OrderTTL = cmdutil.EnvValue("ORDER_TTL", "24h")
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.SetDefault(cmdutil.Logger())
	slog.Info("setting up paynow scheduler", "env", Env)

	orderTTL, err := time.ParseDuration(OrderTTL)
	if err != nil {
		slog.Error("invalid order ttl", "ttl", OrderTTL, "error", err)
		os.Exit(1)
	}

	awsConfig, err := cmdutil.AWSConfig(ctx, Env, AWSEndpoint)
	if err != nil {
		slog.Error("failed to load aws config", "error", err)
		os.Exit(1)
	}

	// Database.
	secretsClient := secretsmanager.NewFromConfig(*awsConfig)
	db, err := cmdutil.DBFromSecret(ctx, secretsClient, DBSecretName)
	if err != nil {
		slog.Error("failed connecting to database", "error", err)
		os.Exit(1)
	}

	// Services.
	orderService := order.NewService(db, merchant.NewService(db))
	idempotencyService := idempotency.NewService(db)

	if Env == cmdutil.LocalEnvironment {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sweep(ctx, orderService, idempotencyService, orderTTL); err != nil {
					slog.ErrorContext(ctx, "error sweeping", "error", err)
				}
			}
		}
	}

	lambda.Start(func(ctx context.Context) error {
		return sweep(ctx, orderService, idempotencyService, orderTTL)
	})
}

// sweep cancels orders left pending for longer than orderTTL and removes
// expired idempotency records.
func sweep(ctx context.Context, orderService order.Service, idempotencyService idempotency.Service, orderTTL time.Duration) error {
	slog.InfoContext(ctx, "sweeping stale orders")
	cancelled, err := orderService.CancelStale(ctx, timeutil.Now().Add(-orderTTL))
	if err != nil {
		return fmt.Errorf("failed to cancel stale orders: %w", err)
	}

	deleted, err := idempotencyService.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}

	slog.InfoContext(ctx, "sweep completed", "cancelled_orders", cancelled, "deleted_idempotency_records", deleted)
	return nil
}
