package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	// SourceDateLayout is the fixed date format used by uploaded sale files.
	SourceDateLayout = "01/02/2006"
	// ISODateLayout is the storage and API date format.
	ISODateLayout = "2006-01-02"
)

type (
	Date struct {
		time.Time
	}

	// Sale is one transaction line. Rows are created only by bulk import
	// and are never updated or deleted.
	Sale struct {
		ID        int64
		Date      Date
		OrderID   string
		ProductID string
		AmountSGD float64
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ParseSourceDate parses a date string in the MM/DD/YYYY format used by
// uploaded files.
func ParseSourceDate(s string) (Date, error) {
	t, err := time.Parse(SourceDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: parse %q as %s: %v", ErrInvalidDate, s, SourceDateLayout, err)
	}
	return Date{Time: t}, nil
}

// ParseISODate parses a YYYY-MM-DD date string.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: parse %q as %s: %v", ErrInvalidDate, s, ISODateLayout, err)
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format(ISODateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDate
	}
	parsed, err := ParseISODate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (s Sale) Validate() error {
	return s.Date.Validate()
}
