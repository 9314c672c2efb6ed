package timeutil

import (
	"encoding/json"
	"time"
)

const (
	dateTimeFormat = "2006-01-02T15:04:05Z"
	dateFormat     = "2006-01-02"
	// compactDateFormat is the YYYYMMDD layout used inside EMV QR templates.
	compactDateFormat = "20060102"
)

var singaporeLocation = time.FixedZone("SGT", 8*60*60)

type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var dateStr string
	if err := json.Unmarshal(data, &dateStr); err != nil {
		return err
	}

	parsed, err := time.Parse(dateTimeFormat, dateStr)
	if err != nil {
		return err
	}

	d.Time = parsed.UTC()
	return nil
}

func (d DateTime) String() string {
	return d.Time.UTC().Format(dateTimeFormat)
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC()}
}

func DateTimeNow() DateTime {
	return NewDateTime(Now())
}

// Date is a calendar date in Singapore time.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var dateStr string
	if err := json.Unmarshal(data, &dateStr); err != nil {
		return err
	}

	parsed, err := ParseDate(dateStr)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

func (d Date) String() string {
	return d.Time.Format(dateFormat)
}

func ParseDate(s string) (Date, error) {
	parsed, err := time.ParseInLocation(dateFormat, s, singaporeLocation)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: parsed}, nil
}

// ParseCompactDate parses a YYYYMMDD date.
func ParseCompactDate(s string) (Date, error) {
	parsed, err := time.ParseInLocation(compactDateFormat, s, singaporeLocation)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: parsed}, nil
}

func Now() time.Time {
	return time.Now().UTC()
}
