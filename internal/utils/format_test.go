package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0.00"},
		{15, "15.00"},
		{999.9, "999.90"},
		{1000, "1,000.00"},
		{1234567.5, "1,234,567.50"},
		{-4500.25, "-4,500.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount))
	}
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 30.0, RoundCents(10_000*0.003))
	assert.Equal(t, 0.01, RoundCents(0.005))
	assert.Equal(t, 1.0, RoundCents(1.0000000000000002))
}
