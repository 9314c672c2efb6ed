package idempotency

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/api"
)

// HeaderKey carries the client chosen key that makes a POST safe to retry.
const HeaderKey = "X-Idempotency-Key"

const errCode = "IDEMPOTENCY_ERROR"

// Middleware runs next once per key. Retries with the same key and body get
// the first successful response back, retries with another body are
// rejected.
func Middleware(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, payload, err := readRetryable(r)
			if err != nil {
				api.WriteError(w, r, err)
				return
			}

			prev, err := service.Lookup(r.Context(), key, payload)
			switch {
			case err == nil:
				slog.InfoContext(r.Context(), "replaying response", "idempotency_key", key, "status", prev.StatusCode)
				replay(w, r, prev)
				return
			case errors.Is(err, ErrPayloadMismatch):
				api.WriteError(w, r, api.NewError(errCode, http.StatusUnprocessableEntity, err.Error()))
				return
			case !errors.Is(err, ErrNotFound):
				api.WriteError(w, r, err)
				return
			}

			c := &capture{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(c, r)
			if !c.succeeded() {
				return
			}

			if err := service.Create(r.Context(), newRecord(key, payload, c.status, c.body.Bytes())); err != nil {
				slog.ErrorContext(r.Context(), "could not keep response for retries", "idempotency_key", key, "error", err)
			}
		})
	}
}

// readRetryable returns the key and body of r. The body stays readable for
// the next handler.
func readRetryable(r *http.Request) (string, []byte, error) {
	key := strings.TrimSpace(r.Header.Get(HeaderKey))
	if key == "" {
		return "", nil, api.NewError(errCode, http.StatusUnprocessableEntity, "the "+HeaderKey+" header is required")
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, api.NewError(errCode, http.StatusBadRequest, "could not read the request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(payload))
	return key, payload, nil
}

func replay(w http.ResponseWriter, r *http.Request, rec *Record) {
	body, err := rec.body()
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rec.StatusCode)
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(r.Context(), "could not write replayed response", "idempotency_key", rec.ID, "error", err)
	}
}

// capture writes the response through and keeps a copy of it.
type capture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *capture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *capture) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

// succeeded reports whether the response should be replayed on retries.
func (c *capture) succeeded() bool {
	return c.status >= 200 && c.status < 300
}
