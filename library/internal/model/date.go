package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is dd-MM-yyyy.
const DateLayout = "02-01-2006"

const sqlDateLayout = time.DateOnly

// Date is a calendar date at UTC midnight.
type Date time.Time

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) IsZero() bool { return time.Time(d).IsZero() }

func (d Date) After(other Date) bool { return time.Time(d).After(time.Time(other)) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return fmt.Errorf("date %s must be a string", raw)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("date %q must be in dd-MM-yyyy format", s)
	}
	*d = Date(t)
	return nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		return d.parseSQL(v)
	case []byte:
		return d.parseSQL(string(v))
	default:
		return fmt.Errorf("model.Date: cannot scan %T", src)
	}
	return nil
}

func (d *Date) parseSQL(s string) error {
	t, err := time.ParseInLocation(sqlDateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("model.Date: %w", err)
	}
	*d = Date(t)
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return time.Time(d), nil
}
