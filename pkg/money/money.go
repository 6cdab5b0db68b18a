// Package money holds monetary amounts as fixed-point minor units.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/shopspring/decimal"
	"math"
)

// Scale is the number of minor-unit digits kept for every amount.
const Scale = 2

var ErrInvalidAmount = errors.New("invalid money amount")

// Exponent bounds checked before rounding. Anything outside cannot be a valid amount, and
// rounding such values first costs time proportional to the exponent.
const (
	maxExponent = 18
	minExponent = -20
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64).Shift(-Scale)
	minAmount = decimal.NewFromInt(math.MinInt64).Shift(-Scale)
)

// Amount is a signed quantity of minor units (cents).
type Amount int64

// Parse parses a decimal string such as "12.34" into an Amount, rounding to Scale places.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts d to minor units, rounding to Scale places.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsZero() {
		return 0, nil
	}
	if exp := d.Exponent(); exp > maxExponent {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	} else if exp < minExponent {
		return 0, fmt.Errorf("%w: too many decimal places", ErrInvalidAmount)
	}
	d = d.Round(Scale)
	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return Amount(d.Shift(Scale).IntPart()), nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

func (a Amount) Neg() Amount {
	return -a
}

func (a Amount) IsPositive() bool {
	return a > 0
}

// Add returns a+b, failing instead of wrapping on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("%w: overflow", ErrInvalidAmount)
	}
	return a + b, nil
}

// MarshalJSON renders the amount as a fixed two-place decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("%w: null", ErrInvalidAmount)
	}
	raw = bytes.Trim(raw, `"`)
	v, err := Parse(string(raw))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Sum adds up amounts, failing on overflow.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	var err error
	for _, v := range amounts {
		if total, err = total.Add(v); err != nil {
			return 0, err
		}
	}
	return total, nil
}
