package domain

import (
	"fmt"
	"time"
)

const (
	yearMonthLayout = "2006-01"
	dateLayout      = "2006-01-02"
)

// YearMonth is a calendar month, used for birthDate/dateOfDeath. The wire
// format is "yyyy-MM"; a "yyyy-MM-dd" value is accepted as a lenient
// fallback and reduced to its year-month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a YearMonth from its components.
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// IsZero reports whether the value was never set.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Time returns the first instant of the month in UTC, for comparisons.
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (ym YearMonth) Before(other YearMonth) bool { return ym.Time().Before(other.Time()) }
func (ym YearMonth) After(other YearMonth) bool   { return ym.Time().After(other.Time()) }

func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	if ym.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ym.String() + `"`), nil
}

func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" {
		*ym = YearMonth{}
		return nil
	}
	if t, err := time.Parse(yearMonthLayout, s); err == nil {
		ym.Year, ym.Month = t.Year(), t.Month()
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		ym.Year, ym.Month = t.Year(), t.Month()
		return nil
	}
	return fmt.Errorf("domain: invalid year-month %q", s)
}

// Date is a calendar day ("yyyy-MM-dd"), used for issuedOn/recordedOn/
// effectiveDate/collection-date fields.
type Date struct {
	time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("domain: invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func unquote(data []byte) string {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if s == "null" {
		return ""
	}
	return s
}

// Period is a half-open or closed time span with an optional end.
type Period struct {
	Start Date  `json:"start"`
	End   *Date `json:"end,omitempty"`
}
