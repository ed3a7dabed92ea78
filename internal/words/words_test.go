package words_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcortes/habita/internal/words"
)

func TestToWords(t *testing.T) {
	type testCase struct {
		name   string
		amount string
		want   string
	}

	tests := []testCase{
		{name: "Zero", amount: "0", want: "zero"},
		{name: "ZeroWithCentsPrecision", amount: "0.00", want: "zero"},
		{name: "Single", amount: "7", want: "Seven"},
		{name: "Teen", amount: "14", want: "Fourteen"},
		{name: "CompoundTens", amount: "21", want: "Twenty-one"},
		{name: "RoundTens", amount: "40", want: "Forty"},
		{name: "Hundred", amount: "100", want: "One hundred"},
		{name: "HundredAndChange", amount: "115", want: "One hundred fifteen"},
		{name: "Thousand", amount: "1000", want: "One thousand"},
		{name: "ThousandWithCents", amount: "1234.50", want: "One thousand two hundred thirty-four and 50/100"},
		{name: "ZeroGroupSkipped", amount: "1000215", want: "One million two hundred fifteen"},
		{name: "Million", amount: "2500000", want: "Two million five hundred thousand"},
		{name: "Billion", amount: "1000000000", want: "One billion"},
		{name: "Trillion", amount: "3000000000000", want: "Three trillion"},
		{name: "LargestSpelledMagnitude", amount: "999999999999999", want: "Nine hundred ninety-nine trillion nine hundred ninety-nine billion nine hundred ninety-nine million nine hundred ninety-nine thousand nine hundred ninety-nine"},
		{name: "BeyondNamedScalesFallsBackToDigits", amount: "1000000000000000", want: "1000000000000000"},
		{name: "BeyondNamedScalesKeepsCents", amount: "1000000000000000.25", want: "1000000000000000 and 25/100"},
		{name: "CentsOnly", amount: "0.05", want: "Zero and 05/100"},
		{name: "CentsRounded", amount: "10.999", want: "Eleven"},
		{name: "CentsTruncatedToTwoDigits", amount: "99.994", want: "Ninety-nine and 99/100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)

			assert.Equal(t, tt.want, words.ToWords(d))
		})
	}
}

func TestToWords_NoTrailingFragmentForWholeAmounts(t *testing.T) {
	got := words.ToWords(decimal.NewFromInt(500))

	assert.Equal(t, "Five hundred", got)
	assert.NotContains(t, got, "/100")
}
