package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"180000", 180000},
		{"180,000", 180000},
		{"180 000", 180000},
		{"180 000", 180000},
		{"1'250'000", 1250000},
		{"$180,000", 180000},
		{"180,000.50", 180000.50},
		{"1,5", 1.5},
		{"500k", 500000},
		{"180 тысяч", 180000},
		{"80 тыс", 80000},
		{"500 тисяч", 500000},
		{"1.2 million", 1200000},
		{"2 млн", 2000000},
		{"1 миллион", 1000000},
		{"3 мільйони ", 3000000},
		{"200 thousand", 200000},
		{"1.5m", 1500000},
		{"  120000 CAD ", 120000},
	}
	for _, tc := range cases {
		got, ok := parseNumber(tc.in)
		require.True(t, ok, "expected %q to parse", tc.in)
		require.InDelta(t, tc.want, got, 0.001, "input %q", tc.in)
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "a lot", "n/a", "unknown", "тысяч", "$", "10-20"} {
		_, ok := parseNumber(in)
		require.False(t, ok, "expected %q to be rejected", in)
	}
}
