package domain

import (
	"errors"
	"fmt"
	"time"
)

// Period identifies one canonical monthly billing interval. Its wire and
// storage representation is "MM/YYYY" (1-based month, zero-padded).
type Period struct {
	Year  int
	Month time.Month
}

var ErrInvalidPeriod = errors.New("domain: invalid period")

// PeriodOf returns the billing period containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the "MM/YYYY" form.
func ParsePeriod(s string) (Period, error) {
	if len(s) != 7 || s[2] != '/' {
		return Period{}, fmt.Errorf("domain.ParsePeriod: %q: %w", s, ErrInvalidPeriod)
	}
	var month, year int
	if _, err := fmt.Sscanf(s, "%2d/%4d", &month, &year); err != nil {
		return Period{}, fmt.Errorf("domain.ParsePeriod: %q: %w", s, ErrInvalidPeriod)
	}
	if month < 1 || month > 12 || year < 1 {
		return Period{}, fmt.Errorf("domain.ParsePeriod: %q: %w", s, ErrInvalidPeriod)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// Before reports whether p precedes q in calendar order.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Next returns the period immediately following p.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// MarshalText implements encoding.TextMarshaler so periods serialize as
// "MM/YYYY" in JSON API responses.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
