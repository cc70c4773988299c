package money

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		decimals int32
		want     string
		wantErr  bool
	}{
		{name: "integer", input: "10", decimals: 2, want: "1000"},
		{name: "fraction", input: "10.5", decimals: 2, want: "1050"},
		{name: "full precision", input: "10.55", decimals: 2, want: "1055"},
		{name: "zero", input: "0", decimals: 18, want: "0"},
		{name: "trailing zeros", input: "1.50", decimals: 2, want: "150"},
		{name: "too many decimals", input: "1.234", decimals: 2, wantErr: true},
		{name: "negative", input: "-1", decimals: 2, wantErr: true},
		{name: "not a number", input: "abc", decimals: 2, wantErr: true},
		{name: "empty", input: "", decimals: 2, wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := Parse(c.input, c.decimals)
			if c.wantErr {
				require.Error(t, err)
				require.True(t, xerrors.Is(err, ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.want, m.RawString())
			require.Equal(t, c.decimals, m.Decimals())
		})
	}
}

func TestParseRaw(t *testing.T) {
	m, err := ParseRaw("1000000000000000000", 18)
	require.NoError(t, err)
	require.Equal(t, "1", m.Display())

	_, err = ParseRaw("-5", 18)
	require.True(t, xerrors.Is(err, ErrInvalidAmount))

	_, err = ParseRaw("1.5", 18)
	require.True(t, xerrors.Is(err, ErrInvalidAmount))
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		input    string
		decimals int32
		want     string
	}{
		{"0", 18, "0"},
		{"1000", 2, "1,000"},
		{"1234567.891", 4, "1,234,567.891"},
		{"10.50", 2, "10.5"},
		{"0.001", 3, "0.001"},
		{"123", 0, "123"},
	}

	for _, c := range cases {
		m := MustParse(c.input, c.decimals)
		require.Equal(t, c.want, m.Display(), "display of %s", c.input)
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	// parse -> display keeps the numeric value, modulo trimmed zeros
	for _, s := range []string{"1", "1.5", "0.25", "1000000", "42.4242"} {
		m := MustParse(s, 6)
		back := MustParse(stripSeparators(m.Display()), 6)
		require.Equal(t, 0, m.Cmp(back), "round trip of %s", s)
	}
}

func stripSeparators(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func TestAdd(t *testing.T) {
	a := MustParse("1.5", 2)
	b := MustParse("2.25", 2)
	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, "3.75", sum.Display())

	_, err = a.Add(MustParse("1", 18))
	require.True(t, xerrors.Is(err, ErrDecimalsMismatch))
}

func TestMulInt(t *testing.T) {
	m := MustParse("10", 2)
	tripled, err := m.MulInt(3)
	require.NoError(t, err)
	require.Equal(t, "30", tripled.Display())

	zeroed, err := m.MulInt(0)
	require.NoError(t, err)
	require.True(t, zeroed.IsZero())

	_, err = m.MulInt(-1)
	require.True(t, xerrors.Is(err, ErrInvalidAmount))
}

func TestMulDivFloorTruncates(t *testing.T) {
	// 1 smallest unit at 2.5% floors to zero instead of rounding
	m, err := FromRaw(big.NewInt(1), 18)
	require.NoError(t, err)
	fee, err := m.MulDivFloor(250, 10000)
	require.NoError(t, err)
	require.True(t, fee.IsZero())

	// 30.00 at 2.5% = 0.75 exactly
	total := MustParse("30", 2)
	fee, err = total.MulDivFloor(250, 10000)
	require.NoError(t, err)
	require.Equal(t, "0.75", fee.Display())

	// 9999 units at 1bp-of-ten-thousand floors
	odd, err := FromRaw(big.NewInt(9999), 4)
	require.NoError(t, err)
	fee, err = odd.MulDivFloor(1, 10000)
	require.NoError(t, err)
	require.Equal(t, "0", fee.RawString())
}

func TestCmpAcrossDecimals(t *testing.T) {
	a := MustParse("1.5", 2)
	b := MustParse("1.5", 18)
	require.Equal(t, 0, a.Cmp(b))
	require.True(t, a.GTE(b))

	c := MustParse("1.500001", 6)
	require.Equal(t, -1, a.Cmp(c))
	require.False(t, a.GTE(c))
}

func TestZeroValue(t *testing.T) {
	var m Money
	require.True(t, m.IsZero())
	require.Equal(t, "0", m.Display())
	require.Equal(t, "0", m.RawString())
}
