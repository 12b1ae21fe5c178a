package swapform

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces raw user input into a non-negative integer amount.
// Text that is not a number yields zero, negative values clamp to zero and
// fractional values are truncated.
func ParseAmount(text string) uint64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		return v
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(f)
}

// FormatAmount renders a raw integer amount in human units
func FormatAmount(raw uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals)).String()
}

// ToRaw converts a human amount such as "1.5" into raw units, truncating
// any precision beyond decimals
func ToRaw(human string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(human))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, errNegativeAmount
	}

	raw := d.Shift(int32(decimals)).Truncate(0)
	if !raw.BigInt().IsUint64() {
		return 0, errAmountTooLarge
	}
	return raw.BigInt().Uint64(), nil
}
