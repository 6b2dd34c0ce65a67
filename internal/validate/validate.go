// Package validate sanitizes and bounds untrusted request inputs before any
// computation or outbound call.
package validate

import (
	"math"
	"regexp"
	"strings"

	"github.com/stockpulse/stockpulse-go/internal/utils"
)

// symbolStrip removes everything a ticker symbol may not contain.
var symbolStrip = regexp.MustCompile(`[^A-Z0-9.^\-]`)

const maxSymbolLength = 10

// maxAmount bounds the currency-conversion input. Anything larger is a
// client mistake, not a realistic conversion.
const maxAmount = 1e12

// NormalizeSymbol trims, uppercases and strips a raw ticker symbol, then
// bounds its length. An input that is empty after sanitization or longer
// than ten characters is rejected.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	symbol = symbolStrip.ReplaceAllString(symbol, "")

	if symbol == "" {
		return "", utils.NewInvalidInputError("symbol is empty after sanitization")
	}
	if len(symbol) > maxSymbolLength {
		return "", utils.NewInvalidInputErrorf("symbol exceeds %d characters", maxSymbolLength)
	}
	return symbol, nil
}

// Amount validates a monetary amount for the conversion endpoint: finite,
// strictly positive and bounded.
func Amount(value float64) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, utils.NewInvalidInputError("amount must be a finite number")
	}
	if value <= 0 {
		return 0, utils.NewInvalidInputError("amount must be positive")
	}
	if value > maxAmount {
		return 0, utils.NewInvalidInputErrorf("amount exceeds maximum of %g", float64(maxAmount))
	}
	return value, nil
}
