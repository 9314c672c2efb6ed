package idempotency

import (
	"encoding/base64"
	"time"
)

var bodyEncoding = base64.RawStdEncoding

// Record is the stored outcome of a request made with an idempotency key.
// Request and Response hold base64 encoded bodies.
type Record struct {
	ID         string `gorm:"primaryKey"`
	Request    string
	Response   string
	StatusCode int

	CreatedAt time.Time
}

func (Record) TableName() string {
	return "idempotency_records"
}

func newRecord(key string, payload []byte, status int, body []byte) *Record {
	return &Record{
		ID:         key,
		Request:    bodyEncoding.EncodeToString(payload),
		Response:   bodyEncoding.EncodeToString(body),
		StatusCode: status,
	}
}

// matches reports whether payload is the body first sent with the key.
func (rec Record) matches(payload []byte) bool {
	return rec.Request == bodyEncoding.EncodeToString(payload)
}

func (rec Record) body() ([]byte, error) {
	return bodyEncoding.DecodeString(rec.Response)
}
