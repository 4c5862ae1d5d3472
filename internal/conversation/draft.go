package conversation

import (
	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/internal/currency"
	"github.com/m3rciful/bankbot/internal/product"
)

// Step is the explicit position of a chat in the agreement flow.
type Step int

const (
	StepAwaitingProductType Step = iota
	StepAwaitingCurrency
	StepAwaitingAmount
	StepAwaitingPeriod
	StepAwaitingConfirmation
)

func (s Step) String() string {
	switch s {
	case StepAwaitingProductType:
		return "awaiting_product_type"
	case StepAwaitingCurrency:
		return "awaiting_currency"
	case StepAwaitingAmount:
		return "awaiting_amount"
	case StepAwaitingPeriod:
		return "awaiting_period"
	case StepAwaitingConfirmation:
		return "awaiting_confirmation"
	}
	return "unknown"
}

// Draft is an agreement being assembled over several messages. Fields are
// filled strictly in order: product type, currency, sum, period.
type Draft struct {
	ProductType  product.Type
	Currency     *currency.Code
	Sum          *decimal.Decimal
	PeriodMonths *int

	ProductID    *int64
	ProductName  *string
	InterestRate *decimal.Decimal
}

// Step derives the next expected input from which fields are still unset.
// A nil draft awaits the product type.
func (d *Draft) Step() Step {
	switch {
	case d == nil:
		return StepAwaitingProductType
	case d.Currency == nil:
		return StepAwaitingCurrency
	case d.Sum == nil:
		return StepAwaitingAmount
	case d.PeriodMonths == nil:
		return StepAwaitingPeriod
	default:
		return StepAwaitingConfirmation
	}
}

// Clone returns a copy safe to modify within a turn. Pointer fields are
// only ever replaced, never written through, so a shallow copy suffices.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

func (d *Draft) applyProduct(p product.Product) {
	id, name, rate := p.ID, p.Name, p.InterestRate
	d.ProductID = &id
	d.ProductName = &name
	d.InterestRate = &rate
}
