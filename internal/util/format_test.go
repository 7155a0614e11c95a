package util

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		thousand string
		decimal  string
		expected string
	}{
		{name: "european separators", value: 1234567, thousand: ".", decimal: ",", expected: "12.345,67"},
		{name: "negative value", value: -1234567, thousand: ".", decimal: ",", expected: "-12.345,67"},
		{name: "zero value", value: 0, thousand: ".", decimal: ",", expected: "0,00"},
		{name: "less than one unit", value: 99, thousand: ",", decimal: ".", expected: "0.99"},
		{name: "large value", value: 1234567890, thousand: ",", decimal: ".", expected: "12,345,678.90"},
		{name: "no thousands separator", value: 123456, thousand: "", decimal: ".", expected: "1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatMoney(tt.value, tt.thousand, tt.decimal)
			if result != tt.expected {
				t.Errorf("FormatMoney() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(500000); got != "5,000.00" {
		t.Errorf("FormatAmount() = %q, want %q", got, "5,000.00")
	}
}
