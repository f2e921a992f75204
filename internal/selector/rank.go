package selector

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/yourusername/matchboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// NumericPrefix parses the leading digit run of a rank. ok is false when the
// rank does not start with a digit. Digit runs too large for uint64 saturate.
func NumericPrefix(rank string) (uint64, bool) {
	prefix := (&models.Standing{Rank: rank}).RankPrefix()
	if prefix == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return math.MaxUint64, true
	}
	return n, true
}

// ImpliedProbability converts decimal odds to a percentage rounded to one
// decimal place, half away from zero. No overround is removed.
func ImpliedProbability(odds decimal.Decimal) float64 {
	if !odds.IsPositive() {
		return 0
	}
	p, _ := hundred.Div(odds).Round(1).Float64()
	return p
}
