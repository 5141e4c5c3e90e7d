package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0 FCFA"},
		{"950", "950 FCFA"},
		{"1500", "1 500 FCFA"},
		{"25000", "25 000 FCFA"},
		{"1234567", "1 234 567 FCFA"},
		{"-42000", "-42 000 FCFA"},
		{"1999.6", "2 000 FCFA"},
	}
	for _, c := range cases {
		got := FormatAmount(decimal.RequireFromString(c.in))
		if got != c.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	amt := decimal.RequireFromString("12500")
	if got := FormatSigned(amt, true); got != "+12 500 FCFA" {
		t.Errorf("positive: got %q", got)
	}
	if got := FormatSigned(amt, false); got != "-12 500 FCFA" {
		t.Errorf("negative: got %q", got)
	}
	// Sign follows the caller, not the value.
	if got := FormatSigned(amt.Neg(), true); got != "+12 500 FCFA" {
		t.Errorf("negative value forced positive: got %q", got)
	}
}
