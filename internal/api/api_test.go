package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/page"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"api error", NewError("INVALID_STATUS", http.StatusConflict, "order is PAID"), http.StatusConflict, "INVALID_STATUS", "order is PAID"},
		{"wrapped api error", errorutil.Format("%w", NewError(ErrCodeNotFound, http.StatusNotFound, "gone")), http.StatusNotFound, ErrCodeNotFound, "gone"},
		{"exposable error", errorutil.New("Reference is required"), http.StatusUnprocessableEntity, ErrCodeInvalidRequest, "Reference is required"},
		{"internal error", errors.New("connection refused"), http.StatusInternalServerError, ErrCodeInternal, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("could not decode response: %v", err)
			}
			if len(resp.Errors) != 1 || resp.Errors[0].Code != tt.wantCode || resp.Errors[0].Detail != tt.wantDetail {
				t.Errorf("got errors %+v", resp.Errors)
			}
			if resp.Meta == nil || resp.Meta.RequestDateTime.IsZero() {
				t.Errorf("response has no request date time")
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Amount string `json:"amount"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"1.00"}`))
	if err := DecodeJSON(r, &v); err != nil || v.Amount != "1.00" {
		t.Errorf("got %q, %v", v.Amount, err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"1.00","extra":true}`))
	var apiErr Error
	if err := DecodeJSON(r, &v); !errors.As(err, &apiErr) || apiErr.StatusCode() != http.StatusBadRequest {
		t.Errorf("got %v, want a 400 error", err)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var ctxID string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID, _ = r.Context().Value(CtxKeyRequestID).(string)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(HeaderRequestID)
	if generated == "" || generated != ctxID {
		t.Errorf("got header %q and context %q", generated, ctxID)
	}

	const sent = "7d0f7a55-1f8b-4bd6-a0a4-7f7d3f5e2b11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, sent)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != sent || ctxID != sent {
		t.Errorf("got header %q and context %q, want %q", got, ctxID, sent)
	}
}

func TestNewPaginatedLinks(t *testing.T) {
	p := page.New([]int{1, 2}, page.NewPagination(2, 2), 6)

	links := NewPaginatedLinks("https://shop.example/api/orders?page=2&page-size=2&status=PENDING", p)

	want := map[string]string{
		"first": "1",
		"prev":  "1",
		"next":  "3",
		"last":  "3",
	}
	got := map[string]string{
		"first": links.First,
		"prev":  links.Prev,
		"next":  links.Next,
		"last":  links.Last,
	}
	for name, wantPage := range want {
		u, err := url.Parse(got[name])
		if err != nil {
			t.Fatalf("invalid %s link: %v", name, err)
		}
		if u.Query().Get("page") != wantPage || u.Query().Get("status") != "PENDING" {
			t.Errorf("got %s link %q", name, got[name])
		}
	}

	links = NewPaginatedLinks("https://shop.example/api/orders", page.New([]int{1}, page.NewPagination(1, 25), 1))
	if links.First != "" || links.Next != "" {
		t.Errorf("single page has navigation links: %+v", links)
	}
}

func TestNewPagination(t *testing.T) {
	u, _ := url.Parse("/api/orders?page=3&page-size=500")
	if got := NewPagination(u); got.Number != 3 || got.Size != 100 {
		t.Errorf("got %+v", got)
	}

	u, _ = url.Parse("/api/orders?page=x")
	if got := NewPagination(u); got.Number != 1 || got.Size != 25 {
		t.Errorf("got %+v", got)
	}
}

func TestSwagger(t *testing.T) {
	doc, err := Swagger()
	if err != nil {
		t.Fatalf("invalid openapi document: %v", err)
	}
	for _, path := range []string{"/api/settings", "/api/orders", "/api/orders/{id}/qr.png"} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("path %s is not documented", path)
		}
	}
}
