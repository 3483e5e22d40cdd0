package common

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	APTDecimals   = 8 // APT has 8 decimals (octas)
	TokenDecimals = 8 // sToken and rsToken are issued with 8 decimals

	// ExchangeRateScale is the fixed-point scale of on-chain exchange rates (10^8 = 1.0)
	ExchangeRateScale = 100000000
)

// FormatAptAmount converts octas to APT
func FormatAptAmount(octas uint64) float64 {
	return toDisplay(octas, APTDecimals)
}

// ParseAptAmount converts APT to octas, flooring anything below one octa
func ParseAptAmount(apt float64) uint64 {
	return toRaw(apt, APTDecimals)
}

// FormatTokenAmount converts raw protocol token units to display units
func FormatTokenAmount(raw uint64) float64 {
	return toDisplay(raw, TokenDecimals)
}

// ParseTokenAmount converts display token units to raw units, flooring
func ParseTokenAmount(amount float64) uint64 {
	return toRaw(amount, TokenDecimals)
}

// FormatExchangeRate converts a scaled on-chain rate to a ratio
func FormatExchangeRate(raw uint64) float64 {
	return toDisplay(raw, 8)
}

// toDisplay computes raw / 10^decimals.
// toRaw(toDisplay(n)) == n holds for every n below 10^15 (15 significant digits,
// the float64 decimal guarantee). Past 2^53 the last unit is regularly lost.
func toDisplay(raw uint64, decimals int32) float64 {
	f, _ := decimal.NewFromUint64(raw).Shift(-decimals).Float64()
	return f
}

// toRaw computes floor(display * 10^decimals).
// Negative and NaN inputs yield 0, values past uint64 saturate.
func toRaw(display float64, decimals int32) uint64 {
	if math.IsNaN(display) || display <= 0 {
		return 0
	}
	if math.IsInf(display, 1) {
		return math.MaxUint64
	}
	// NewFromFloat keeps the shortest decimal representation, so 0.1 stays exactly 0.1
	d := decimal.NewFromFloat(display).Shift(decimals).Floor()
	if !d.BigInt().IsUint64() {
		return math.MaxUint64
	}
	return d.BigInt().Uint64()
}

// FormatAddress normalizes an account address to 0x-prefixed lowercase hex.
// Empty input stays empty; no length or charset checks are made.
func FormatAddress(address string) string {
	if address == "" {
		return ""
	}
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		address = address[2:]
	}
	return "0x" + strings.ToLower(address)
}

// ShortAddress renders an address as 0x1234...abcd for display
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
