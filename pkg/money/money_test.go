package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr error
	}{
		{name: "whole amount", in: "100000", want: 10000000},
		{name: "two decimal places", in: "100000.50", want: 10000050},
		{name: "one decimal place", in: "30.5", want: 3050},
		{name: "zero", in: "0", want: 0},
		{name: "trailing zeros beyond scale", in: "10.500", want: 1050},
		{name: "negative rejected", in: "-5", wantErr: ErrNegative},
		{name: "sub-tiyin precision rejected", in: "10.505", wantErr: ErrPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNonNumeric(t *testing.T) {
	_, err := Parse("abc")
	assert.Error(t, err)
}

func TestFromDecimal(t *testing.T) {
	got, err := FromDecimal(decimal.NewFromFloat(12345.67))
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), got)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "100000.00", Format(10000000))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "0.00", Format(0))
}

func TestRoundTrip(t *testing.T) {
	got, err := Parse(Format(987654321))
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), got)
}
