package swapform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountClamps(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), ParseAmount("1e30"))
	assert.Equal(t, uint64(0), ParseAmount("-1e30"))
	assert.Equal(t, uint64(18446744073709551615), ParseAmount("18446744073709551615"))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		raw      uint64
		decimals uint8
		want     string
	}{
		{2_000_000_000, 9, "2"},
		{1_500_000, 6, "1.5"},
		{1, 6, "0.000001"},
		{0, 9, "0"},
		{42, 0, "42"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.raw, tt.decimals))
	}
}

func TestToRaw(t *testing.T) {
	raw, err := ToRaw("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000), raw)

	raw, err = ToRaw("0.1234567", 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(123_456), raw)

	_, err = ToRaw("-1", 6)
	assert.ErrorIs(t, err, errNegativeAmount)

	_, err = ToRaw("100000000000", 9)
	assert.ErrorIs(t, err, errAmountTooLarge)

	_, err = ToRaw("abc", 6)
	assert.Error(t, err)
}
