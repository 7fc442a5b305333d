package common

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{1234.56, "$1,234.56"},
		{0, "$0.00"},
		{-500.00, "-$500.00"},
		{1000000.99, "$1,000,000.99"},
	}

	for _, tt := range tests {
		if got := FormatMoney(tt.value); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatSignedMoney(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{20, "+$20.00"},
		{0, "+$0.00"},
		{-12.5, "-$12.50"},
	}

	for _, tt := range tests {
		if got := FormatSignedMoney(tt.value); got != tt.want {
			t.Errorf("FormatSignedMoney(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatSignedPct(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{20, "+20.00%"},
		{0, "+0.00%"},
		{-3.456, "-3.46%"},
	}

	for _, tt := range tests {
		if got := FormatSignedPct(tt.value); got != tt.want {
			t.Errorf("FormatSignedPct(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{10, "10"},
		{2.5, "2.5"},
		{0.1 + 0.2, "0.3"},
	}

	for _, tt := range tests {
		if got := FormatQuantity(tt.value); got != tt.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
