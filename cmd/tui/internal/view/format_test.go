package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"5":          "5.00",
		"1234.5":     "1,234.50",
		"1234567.89": "1,234,567.89",
		"-2500":      "-2,500.00",
		"0.005":      "0.01",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)))
		})
	}
}
