package service

import (
	"slices"
	"strings"
)

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeSymbols returns the distinct non-empty normalized symbols, sorted.
func NormalizeSymbols(symbols []string) []string {
	res := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = NormalizeSymbol(symbol)
		if symbol != "" {
			res = append(res, symbol)
		}
	}

	slices.Sort(res)
	return slices.Compact(res)
}
