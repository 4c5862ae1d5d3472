// Package currency defines the closed set of currencies the bank works with
// and the conversion rules between them and the base currency.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code supported by the bank.
type Code string

const (
	PLN Code = "PLN"
	EUR Code = "EUR"
	USD Code = "USD"
	GBP Code = "GBP"
	CHF Code = "CHF"
)

// Base is the currency all product limits are expressed in.
const Base = PLN

// scale is the number of decimal places kept after conversion.
const scale = 2

var all = []Code{PLN, EUR, USD, GBP, CHF}

// Codes returns every supported currency, base currency first.
func Codes() []Code {
	return append([]Code(nil), all...)
}

// Foreign returns every supported currency except the base one.
func Foreign() []Code {
	out := make([]Code, 0, len(all)-1)
	for _, c := range all {
		if !c.IsBase() {
			out = append(out, c)
		}
	}
	return out
}

// Strings converts codes to their textual form, e.g. for keyboard buttons.
func Strings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

// Parse resolves user input to a supported currency. Matching is exact after trimming.
func Parse(text string) (Code, bool) {
	text = strings.TrimSpace(text)
	for _, c := range all {
		if string(c) == text {
			return c, true
		}
	}
	return "", false
}

// IsBase reports whether c is the base currency.
func (c Code) IsBase() bool {
	return c == Base
}

// Name returns the human-readable currency name.
func (c Code) Name() string {
	switch c {
	case PLN:
		return "Polish zloty"
	case EUR:
		return "euro"
	case USD:
		return "US dollar"
	case GBP:
		return "British pound"
	case CHF:
		return "Swiss franc"
	}
	return string(c)
}

func (c Code) String() string { return string(c) }

// ToBase converts amount expressed in c into the base currency using the
// mid-rate (base units per one unit of c). Base amounts are returned as-is.
func ToBase(amount decimal.Decimal, c Code, rate decimal.Decimal) decimal.Decimal {
	if c.IsBase() {
		return amount
	}
	return amount.Mul(rate).Round(scale)
}

// FromBase converts a base currency amount into c using the mid-rate.
func FromBase(amount decimal.Decimal, c Code, rate decimal.Decimal) decimal.Decimal {
	if c.IsBase() || rate.IsZero() {
		return amount
	}
	return amount.DivRound(rate, scale)
}
