package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is an amount of money in minor units.
type Cents int64

// ParseCents parses a decimal amount such as "12", "12.5" or "-3.07".
// More than two fractional digits is an error.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fieldErr("amount", "must not be empty")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fieldErr("amount", "not a number")
	}
	if !digits(whole) || !digits(frac) {
		return 0, fieldErr("amount", "not a number")
	}
	if len(frac) > 2 {
		return 0, fieldErr("amount", "at most two decimal places")
	}
	var units int64
	if whole != "" {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || w > math.MaxInt64/100 {
			return 0, fieldErr("amount", "out of range")
		}
		units = w * 100
	}
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		f, _ := strconv.ParseInt(frac, 10, 64)
		if units > math.MaxInt64-f {
			return 0, fieldErr("amount", "out of range")
		}
		units += f
	}
	if neg {
		units = -units
	}
	return Cents(units), nil
}

// digits reports whether s holds only ASCII digits. The empty string
// passes.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MulRate returns c scaled by rate, rounded half away from zero.
func (c Cents) MulRate(rate float64) Cents {
	return Cents(math.Round(float64(c) * rate))
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
