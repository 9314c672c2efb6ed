package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	httpadapter "github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/cmd/cmdutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/app"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/qrimage"
)

var (
	Env          = cmdutil.EnvValue("ENV", cmdutil.LocalEnvironment)
	Host         = cmdutil.EnvValue("HOST", "https://api.paynow.local")
	FrontHost    = cmdutil.EnvValue("FRONT_HOST", "https://app.paynow.local")
	Port         = cmdutil.EnvValue("PORT", "80")
	DBSecretName = cmdutil.EnvValue("DB_SECRET_NAME", "paynow/db-credentials")
	AWSEndpoint  = cmdutil.EnvValue("AWS_ENDPOINT_URL", "http://localhost:4566")
	QRForeground = cmdutil.EnvValue("QR_FOREGROUND", qrimage.DefaultForeground)
)

var Handler http.Handler

// Connections are opened once per lambda container and shared between
// invocations.
func init() {
	ctx := context.Background()
	slog.SetDefault(cmdutil.Logger())

	awsConfig, err := cmdutil.AWSConfig(ctx, Env, AWSEndpoint)
	if err != nil {
		log.Fatalf("failed to load aws config: %v", err)
	}

	slog.Info("creating secrets manager client")
	secretsClient := secretsmanager.NewFromConfig(*awsConfig)
	db, err := cmdutil.DBFromSecret(ctx, secretsClient, DBSecretName)
	if err != nil {
		log.Fatalf("failed connecting to database: %v", err)
	}

	qrOptions := qrimage.DefaultOptions()
	qrOptions.Foreground = QRForeground
	Handler = cmdutil.LoggingMiddleware(app.NewHandler(db, app.Config{
		Host:          Host,
		FrontHost:     FrontHost,
		QROptions:     qrOptions,
		IsDevelopment: Env == cmdutil.LocalEnvironment,
	}))
}

func main() {
	slog.Info("starting paynow lambda", slog.String("env", string(Env)))

	if Env == cmdutil.LocalEnvironment {
		if err := http.ListenAndServe(":"+Port, Handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
		return
	}

	lambdaAdapter := httpadapter.NewV2(Handler)
	lambda.Start(lambdaAdapter.ProxyWithContext)
}
