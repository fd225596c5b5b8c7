// Package types holds all shared data structures (DTOs) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, services and storage can all import types without depending
// on each other.
//
// EEDM resources use camelCase JSON names. The self-service resources
// (faculty, grades v1, instant enrollment) keep the PascalCase names their
// clients already consume.
package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// EEDM amounts are JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// NilGUID is the all-zero GUID clients send on POST.
const NilGUID = "00000000-0000-0000-0000-000000000000"

// GUIDObject is a reference to another resource.
type GUIDObject struct {
	ID string `json:"id"`
}

// Ref returns a reference to id, or nil when id is empty.
func Ref(id string) *GUIDObject {
	if id == "" {
		return nil
	}
	return &GUIDObject{ID: id}
}

// RefID returns the id of g, tolerating nil.
func RefID(g *GUIDObject) string {
	if g == nil {
		return ""
	}
	return g.ID
}

// Amount is a monetary value with its ISO currency code.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// dateLayout is the EEDM full-date format.
const dateLayout = "2006-01-02"

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// Some clients send a full timestamp; only the date part matters.
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// DateBefore reports whether a is strictly before b. Nil dates never compare.
func DateBefore(a, b *Date) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Before(b.Time)
}

// IsNilGUID reports whether id is empty or the nil GUID.
func IsNilGUID(id string) bool {
	return id == "" || strings.EqualFold(id, NilGUID)
}
