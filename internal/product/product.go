// Package product holds the read-only catalog of financial products.
package product

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no active product satisfies a request.
var ErrNotFound = errors.New("product: amount or period is out of limit")

// Type is the closed set of product kinds offered by the bank.
type Type string

const (
	DebitCard    Type = "DEBIT_CARD"
	CreditCard   Type = "CREDIT_CARD"
	Deposit      Type = "DEPOSIT"
	ConsumerLoan Type = "CONSUMER_LOAN"
	Mortgage     Type = "MORTGAGE"
)

var types = []Type{DebitCard, CreditCard, Deposit, ConsumerLoan, Mortgage}

// Types returns every known product type.
func Types() []Type {
	return append([]Type(nil), types...)
}

// DisplayName is the label shown to bot users.
func (t Type) DisplayName() string {
	switch t {
	case DebitCard:
		return "Debit card"
	case CreditCard:
		return "Credit card"
	case Deposit:
		return "Deposit"
	case ConsumerLoan:
		return "Consumer loan"
	case Mortgage:
		return "Mortgage"
	}
	return string(t)
}

// IsCard reports whether the type follows the card branch, where amount and
// period come from the product itself instead of user input.
func (t Type) IsCard() bool {
	switch t {
	case DebitCard, CreditCard:
		return true
	case Deposit, ConsumerLoan, Mortgage:
		return false
	}
	return false
}

// ParseType resolves either a display name ("Debit card") or a stored code ("DEBIT_CARD").
func ParseType(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	for _, t := range types {
		if s == t.DisplayName() || s == string(t) {
			return t, true
		}
	}
	return "", false
}

// Scan implements sql.Scanner.
func (t *Type) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("product type: unsupported scan source %T", src)
	}
	parsed, ok := ParseType(raw)
	if !ok {
		return fmt.Errorf("product type: unknown value %q", raw)
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t Type) Value() (driver.Value, error) {
	return string(t), nil
}

// Status of a catalog entry.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Product is a catalog entry. MinLimit and MaxLimit are expressed in the base currency.
type Product struct {
	ID           int64               `db:"id" json:"id"`
	Type         Type                `db:"type" json:"type"`
	Name         string              `db:"name" json:"name"`
	MinLimit     decimal.Decimal     `db:"min_limit" json:"min_limit"`
	MaxLimit     decimal.NullDecimal `db:"max_limit" json:"max_limit"`
	InterestRate decimal.Decimal     `db:"interest_rate" json:"interest_rate"`
	PeriodMonths int                 `db:"period_months" json:"period_months"`
	Status       Status              `db:"status" json:"status"`
}

// Accepts reports whether amount (base currency) and the requested minimal
// period fall inside the product's eligibility bounds.
func (p Product) Accepts(amount decimal.Decimal, periodMonths int) bool {
	if amount.LessThan(p.MinLimit) {
		return false
	}
	if p.MaxLimit.Valid && amount.GreaterThan(p.MaxLimit.Decimal) {
		return false
	}
	return p.PeriodMonths >= periodMonths
}

// SelectSuitable returns the best match among candidates of type t.
// Ties are broken by shortest period, then lowest interest rate, then lowest id.
func SelectSuitable(candidates []Product, t Type, amount decimal.Decimal, periodMonths int) (Product, error) {
	var (
		best  Product
		found bool
	)
	for _, p := range candidates {
		if p.Type != t || !p.Accepts(amount, periodMonths) {
			continue
		}
		if !found || better(p, best) {
			best, found = p, true
		}
	}
	if !found {
		return Product{}, ErrNotFound
	}
	return best, nil
}

func better(a, b Product) bool {
	if a.PeriodMonths != b.PeriodMonths {
		return a.PeriodMonths < b.PeriodMonths
	}
	if cmp := a.InterestRate.Cmp(b.InterestRate); cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}
