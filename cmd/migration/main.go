package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/cmd/cmdutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/app"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/dbutil"
)

var (
	Env          = cmdutil.EnvValue("ENV", cmdutil.LocalEnvironment)
	DBSecretName = cmdutil.EnvValue("DB_SECRET_NAME", "paynow/db-credentials")
	AWSEndpoint  = cmdutil.EnvValue("AWS_ENDPOINT_URL", "http://localhost:4566")
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.SetDefault(cmdutil.Logger())
	slog.Info("setting up db migration and seeding", "env", Env)
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

	// Migrations.
	if err := dbutil.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed database.
	settings := cmdutil.SeedSettingsFromEnv()
	if settings == nil {
		slog.Info("no merchant settings to seed")
		return
	}
	if err := app.SeedSettings(ctx, db, settings); err != nil {
		slog.Error("failed to seed merchant settings", "error", err)
		os.Exit(1)
	}
	slog.Info("database seeding completed successfully")
}
