package api

import (
	"context"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/google/uuid"
	netmiddleware "github.com/oapi-codegen/nethttp-middleware"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
)

// RequestIDMiddleware propagates the X-Request-ID header, generating one
// when the client did not send it, and stores it in the request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, requestID)
		ctx := context.WithValue(r.Context(), CtxKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecureMiddleware sets the security headers of every response.
func SecureMiddleware(isDevelopment bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		IsDevelopment:        isDevelopment,
	}).Handler
}

// CORSMiddleware allows the merchant front end to call the API.
func CORSMiddleware(frontHost string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{frontHost},
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodHead, http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders:   []string{"Content-Type", HeaderRequestID, "X-Idempotency-Key"},
		ExposedHeaders:   []string{HeaderRequestID},
	}).Handler
}

// SwaggerMiddleware validates requests against the OpenAPI document.
func SwaggerMiddleware(getSwagger func() (*openapi3.T, error), errCode string) func(http.Handler) http.Handler {
	spec, err := getSwagger()
	if err != nil {
		panic(err)
	}
	return netmiddleware.OapiRequestValidatorWithOptions(spec, &netmiddleware.Options{
		DoNotValidateServers: true,
		Options: openapi3filter.Options{
			AuthenticationFunc: func(ctx context.Context, ai *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandlerWithOpts: func(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, opts netmiddleware.ErrorHandlerOpts) {
			WriteError(w, r, NewError(errCode, http.StatusUnprocessableEntity, err.Error()))
		},
	})
}
