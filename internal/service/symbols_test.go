package service

import (
	"slices"
	"testing"
)

func TestNormalizeSymbols(t *testing.T) {
	got := NormalizeSymbols([]string{" aapl", "MSFT", "", "AAPL ", "petr4.sa", "  "})
	want := []string{"AAPL", "MSFT", "PETR4.SA"}
	if !slices.Equal(got, want) {
		t.Errorf("NormalizeSymbols() = %v, want %v", got, want)
	}
}
