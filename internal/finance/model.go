package finance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
	KindFunding = "funding"
	KindOther   = "other"
)

// maxAmountCents mirrors a DECIMAL(12,2) column.
const maxAmountCents int64 = 999_999_999_999

var (
	// ErrInvalidKind is returned for entry kinds outside the supported set.
	ErrInvalidKind = errors.New("invalid entry kind")
	// ErrInvalidAmount is returned for amounts that are not positive two-place decimals.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Entry is an immutable financial record owned by one user. Amounts are kept
// in minor units (hundredths).
type Entry struct {
	ID          string
	UserID      string
	AmountCents int64
	Kind        string
	Description string
	Source      string
	Date        time.Time
}

// Filter narrows entry listings. Empty fields match everything.
type Filter struct {
	UserID string
	Kind   string
}

func (f Filter) matches(e Entry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	return true
}

// ValidKind reports whether kind is one of the supported entry kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindIncome, KindExpense, KindFunding, KindOther:
		return true
	default:
		return false
	}
}

// ParseAmount converts a decimal string such as "1250.5" into minor units.
func ParseAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	whole, frac, hasFrac := strings.Cut(raw, ".")
	if raw == "" || !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return 0, fmt.Errorf("%w: %q must have at most two decimal places", ErrInvalidAmount, raw)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if units > maxAmountCents/100 {
		return 0, fmt.Errorf("%w: %q exceeds the supported range", ErrInvalidAmount, raw)
	}

	total := units*100 + cents
	if total <= 0 || total > maxAmountCents {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return total, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders minor units as a two-place decimal string.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Units converts minor units to a float for reporting.
func Units(cents int64) float64 {
	return float64(cents) / 100
}
