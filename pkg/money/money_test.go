package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsCurrencyPrefix(t *testing.T) {
	for _, input := range []string{"89.99", "$89.99", " $ 89.99 ", "$89.990"} {
		amount, err := Parse(input)
		require.NoError(t, err, input)
		assert.True(t, amount.Equal(decimal.RequireFromString("89.99")), input)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "$", "abc", "$12.3.4"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestFormatRoundsAtBoundary(t *testing.T) {
	assert.Equal(t, "$80.99", Format(decimal.RequireFromString("80.991")))
	assert.Equal(t, "$0.00", Format(decimal.Zero))
	assert.Equal(t, "$1234.50", Format(MustParse("$1,234.5")))
}

func TestRoundKeepsCents(t *testing.T) {
	got := Round(decimal.RequireFromString("80.995"))
	assert.True(t, got.Equal(decimal.RequireFromString("81")), got.String())
}
