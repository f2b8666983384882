package models

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// RateScale is the number of basis points in 100%.
const RateScale = 10000

// Rate is a percentage stored as basis points (hundredths of a percent).
// 10.21% is Rate(1021). Integer storage keeps every commission step exact.
type Rate int64

// Of returns floor(amount * rate / 100%) in integer currency units. The
// product is computed in 128 bits; results beyond int64 saturate.
func (r Rate) Of(amount int64) int64 {
	if amount <= 0 || r <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(amount), uint64(r))
	if hi >= RateScale {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, RateScale)
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(q)
}

// String renders the rate as a percentage with two decimals, e.g. "10.21%".
func (r Rate) String() string {
	sign := ""
	v := int64(r)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d%%", sign, v/100, v%100)
}

// ParseRate parses a percentage such as "10.21", "2" or "1.5%" into basis points.
// Only unsigned decimal digits are accepted. More than two decimals are
// rejected instead of rounded.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole, len(whole)) || (hasFrac && !isDigits(frac, len(frac))) {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("rate %q has more than two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return Rate(w*100 + f), nil
}
