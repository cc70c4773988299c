package money

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

var (
	// ErrInvalidAmount indicates the input is not a valid non-negative
	// amount or carries more fractional digits than the currency allows
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDecimalsMismatch indicates arithmetic between two amounts of
	// different currencies precision
	ErrDecimalsMismatch = errors.New("decimals mismatch")
)

var bigTen = big.NewInt(10)

// Money is a fixed-point amount of some currency. The value is kept as
// raw integer scaled by 10^decimals, so all arithmetic stays exact.
// Conversion to and from human readable decimal strings happens only at
// the I/O boundary.
type Money struct {
	raw      *big.Int
	decimals int32
}

// Zero returns a zero amount with the given precision
func Zero(decimals int32) Money {
	return Money{raw: new(big.Int), decimals: decimals}
}

// FromRaw builds an amount from a raw scaled integer. Negative values
// are rejected.
func FromRaw(raw *big.Int, decimals int32) (Money, error) {
	if raw == nil || raw.Sign() < 0 {
		return Money{}, xerrors.Errorf("raw %v: %w", raw, ErrInvalidAmount)
	}
	return Money{raw: new(big.Int).Set(raw), decimals: decimals}, nil
}

// ParseRaw parses a base-10 integer string in the currency's smallest
// unit, the format used on the wire
func ParseRaw(s string, decimals int32) (Money, error) {
	raw, ok := new(big.Int).SetString(s, 10)
	if !ok || raw.Sign() < 0 {
		return Money{}, xerrors.Errorf("raw %q: %w", s, ErrInvalidAmount)
	}
	return Money{raw: raw, decimals: decimals}, nil
}

// Parse parses a human entered decimal string. It fails with
// ErrInvalidAmount when the string is not a valid non-negative decimal
// or has more fractional digits than decimals allows.
func Parse(s string, decimals int32) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, xerrors.Errorf("parse %q: %w", s, ErrInvalidAmount)
	}
	if d.IsNegative() {
		return Money{}, xerrors.Errorf("negative %q: %w", s, ErrInvalidAmount)
	}
	if d.Exponent() < -decimals {
		return Money{}, xerrors.Errorf("%q exceeds %d decimals: %w", s, decimals, ErrInvalidAmount)
	}
	return Money{raw: d.Shift(decimals).BigInt(), decimals: decimals}, nil
}

// MustParse is a test helper, it panics on invalid input
func MustParse(s string, decimals int32) Money {
	m, err := Parse(s, decimals)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) rawOrZero() *big.Int {
	if m.raw == nil {
		return new(big.Int)
	}
	return m.raw
}

// Raw returns a copy of the raw scaled integer
func (m Money) Raw() *big.Int {
	return new(big.Int).Set(m.rawOrZero())
}

// RawString returns the raw scaled integer as a base-10 string
func (m Money) RawString() string {
	return m.rawOrZero().String()
}

func (m Money) Decimals() int32 {
	return m.decimals
}

func (m Money) IsZero() bool {
	return m.rawOrZero().Sign() == 0
}

// Add returns m + o. Both amounts must share the same precision.
func (m Money) Add(o Money) (Money, error) {
	if m.decimals != o.decimals {
		return Money{}, xerrors.Errorf("%d vs %d: %w", m.decimals, o.decimals, ErrDecimalsMismatch)
	}
	return Money{
		raw:      new(big.Int).Add(m.rawOrZero(), o.rawOrZero()),
		decimals: m.decimals,
	}, nil
}

// MulInt returns m * n for a non-negative integer quantity
func (m Money) MulInt(n int64) (Money, error) {
	if n < 0 {
		return Money{}, xerrors.Errorf("quantity %d: %w", n, ErrInvalidAmount)
	}
	return Money{
		raw:      new(big.Int).Mul(m.rawOrZero(), big.NewInt(n)),
		decimals: m.decimals,
	}, nil
}

// MulDivFloor returns m * mul / div, truncating toward zero. This is
// the fee computation primitive, e.g. fee = total.MulDivFloor(rate, 10000).
func (m Money) MulDivFloor(mul, div int64) (Money, error) {
	if mul < 0 || div <= 0 {
		return Money{}, xerrors.Errorf("mul %d div %d: %w", mul, div, ErrInvalidAmount)
	}
	raw := new(big.Int).Mul(m.rawOrZero(), big.NewInt(mul))
	raw.Quo(raw, big.NewInt(div))
	return Money{raw: raw, decimals: m.decimals}, nil
}

// Cmp compares two amounts by value, scaling to the larger precision
// so amounts of different currencies precision compare exactly
func (m Money) Cmp(o Money) int {
	a, b := m.rawOrZero(), o.rawOrZero()
	if m.decimals < o.decimals {
		scale := new(big.Int).Exp(bigTen, big.NewInt(int64(o.decimals-m.decimals)), nil)
		a = new(big.Int).Mul(a, scale)
	} else if o.decimals < m.decimals {
		scale := new(big.Int).Exp(bigTen, big.NewInt(int64(m.decimals-o.decimals)), nil)
		b = new(big.Int).Mul(b, scale)
	}
	return a.Cmp(b)
}

// GTE reports whether m >= o
func (m Money) GTE(o Money) bool {
	return m.Cmp(o) >= 0
}

// Display formats the amount with thousands separators and a trimmed
// mantissa, e.g. 1234500000000000000 with 18 decimals -> "1.2345"
func (m Money) Display() string {
	raw := m.rawOrZero().String()
	dec := int(m.decimals)

	var intPart, fracPart string
	if len(raw) <= dec {
		intPart = "0"
		fracPart = strings.Repeat("0", dec-len(raw)) + raw
	} else {
		intPart = raw[:len(raw)-dec]
		fracPart = raw[len(raw)-dec:]
	}

	fracPart = strings.TrimRight(fracPart, "0")

	grouped := groupThousands(intPart)
	if fracPart == "" {
		return grouped
	}
	return grouped + "." + fracPart
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
