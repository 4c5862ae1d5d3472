package conversation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/core/telegram/format"
	"github.com/m3rciful/bankbot/internal/agreement"
	"github.com/m3rciful/bankbot/internal/currency"
	"github.com/m3rciful/bankbot/internal/product"
	"github.com/m3rciful/bankbot/internal/user"
)

var (
	amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	periodPattern = regexp.MustCompile(`^\d+$`)
)

// handleAgreement advances the agreement draft of chatID by one step.
func (s *Service) handleAgreement(ctx context.Context, chatID int64, text string, role user.Role) (Reply, error) {
	current, ok := s.sessions.draft(chatID)
	if !ok {
		return s.chooseProductType(ctx, chatID, text)
	}

	next := current.Clone()
	var (
		reply Reply
		err   error
	)
	switch step := current.Step(); step {
	case StepAwaitingProductType:
		return s.chooseProductType(ctx, chatID, text)
	case StepAwaitingCurrency:
		reply, err = s.chooseCurrency(ctx, next, text)
	case StepAwaitingAmount:
		reply = enterAmount(next, text)
	case StepAwaitingPeriod:
		reply, err = s.enterPeriod(ctx, next, text)
	case StepAwaitingConfirmation:
		return s.finalize(ctx, chatID, current, role)
	default:
		return Reply{}, fmt.Errorf("conversation: unexpected step %s", step)
	}

	if errors.Is(err, product.ErrNotFound) {
		s.sessions.reset(chatID)
		return menuReply(role, msgOutOfLimit+"\n"+msgSelectAction), nil
	}
	if err != nil {
		return Reply{}, err
	}
	if *next != *current {
		s.sessions.saveDraft(chatID, next)
	}
	return reply, nil
}

func (s *Service) listProductTypes(ctx context.Context, _ int64) (Reply, error) {
	types, err := s.catalog.ActiveTypes(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("list product types: %w", err)
	}
	var b strings.Builder
	b.WriteString(msgProductTypes)
	buttons := make([]string, 0, len(types)+1)
	for _, t := range types {
		b.WriteString(t.DisplayName())
		b.WriteString("\n")
		buttons = append(buttons, t.DisplayName())
	}
	b.WriteString("\n")
	b.WriteString(msgSelectProduct)
	return Reply{Text: b.String(), Buttons: append(buttons, ButtonBack)}, nil
}

// chooseProductType handles a chat with no draft yet.
func (s *Service) chooseProductType(ctx context.Context, chatID int64, text string) (Reply, error) {
	if text == ButtonProducts {
		return s.listProductTypes(ctx, chatID)
	}
	unknown := Reply{Text: msgUnknownInput, Buttons: []string{ButtonExit}}

	t, ok := product.ParseType(text)
	if !ok {
		return unknown, nil
	}
	types, err := s.catalog.ActiveTypes(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("list product types: %w", err)
	}
	if !slices.Contains(types, t) {
		return unknown, nil
	}
	products, err := s.catalog.ActiveProductsOfType(ctx, t)
	if err != nil {
		return Reply{}, fmt.Errorf("list products of type %s: %w", t, err)
	}

	s.sessions.saveDraft(chatID, &Draft{ProductType: t})
	return Reply{
		Text:    productsOfType(t, products),
		Buttons: append(currency.Strings(currency.Codes()), ButtonBack),
	}, nil
}

func (s *Service) chooseCurrency(ctx context.Context, d *Draft, text string) (Reply, error) {
	code, ok := currency.Parse(text)
	if !ok {
		return Reply{
			Text:    msgUnknownCurrency,
			Buttons: append(currency.Strings(currency.Codes()), ButtonBack),
		}, nil
	}

	if !d.ProductType.IsCard() {
		d.Currency = &code
		return Reply{Text: msgEnterAmount, Buttons: []string{ButtonBack}}, nil
	}

	p, err := s.catalog.EntryProduct(ctx, d.ProductType)
	if err != nil {
		return Reply{}, err
	}
	rate, err := s.rateOf(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	sum := currency.FromBase(p.MinLimit, code, rate)
	period := p.PeriodMonths
	d.Currency = &code
	d.Sum = &sum
	d.PeriodMonths = &period
	d.applyProduct(p)
	return suitableReply(p), nil
}

func enterAmount(d *Draft, text string) Reply {
	retry := Reply{Text: msgBadDecimal, Buttons: []string{ButtonBack}}
	if !amountPattern.MatchString(text) {
		return retry
	}
	amount, err := decimal.NewFromString(text)
	if err != nil || !amount.IsPositive() {
		return retry
	}
	d.Sum = &amount
	return Reply{Text: msgEnterPeriod, Buttons: []string{ButtonBack}}
}

func (s *Service) enterPeriod(ctx context.Context, d *Draft, text string) (Reply, error) {
	retry := Reply{Text: msgBadInteger, Buttons: []string{ButtonBack}}
	if !periodPattern.MatchString(text) {
		return retry, nil
	}
	period, err := strconv.Atoi(text)
	if err != nil || period <= 0 {
		return retry, nil
	}

	code := format.Deref(d.Currency, currency.Base)
	rate, err := s.rateOf(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	amount := currency.ToBase(format.Deref(d.Sum, decimal.Zero), code, rate)

	p, err := s.catalog.SuitableProduct(ctx, d.ProductType, amount, period)
	if err != nil {
		return Reply{}, err
	}
	d.PeriodMonths = &period
	d.applyProduct(p)
	return suitableReply(p), nil
}

// finalize stores the confirmed draft and closes the session.
func (s *Service) finalize(ctx context.Context, chatID int64, d *Draft, role user.Role) (Reply, error) {
	created, err := s.agreements.Create(ctx, agreement.Agreement{
		ClientChatID: chatID,
		ProductID:    format.Deref(d.ProductID, 0),
		ProductName:  format.Deref(d.ProductName, ""),
		Currency:     format.Deref(d.Currency, currency.Base),
		Sum:          format.Deref(d.Sum, decimal.Zero),
		InterestRate: format.Deref(d.InterestRate, decimal.Zero),
		PeriodMonths: format.Deref(d.PeriodMonths, 0),
	})
	if err != nil {
		return Reply{}, err
	}
	s.sessions.reset(chatID)

	text := fmt.Sprintf(msgAgreementDone,
		created.ProductName,
		groupedInt(created.Sum),
		created.Currency,
		percent(created.InterestRate),
		created.PeriodMonths,
	)
	return menuReply(role, text), nil
}

// rateOf skips the remote call for the base currency.
func (s *Service) rateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	if code.IsBase() {
		return decimal.NewFromInt(1), nil
	}
	rate, err := s.rates.RateOf(ctx, code)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rate of %s: %w", code, err)
	}
	return rate, nil
}

func suitableReply(p product.Product) Reply {
	return Reply{
		Text:    fmt.Sprintf(msgSuitable, p.Name, percent(p.InterestRate)),
		Buttons: []string{ButtonConfirm, ButtonBack},
	}
}

func productsOfType(t product.Type, products []product.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, msgProductsOfType, t.DisplayName())
	for i, p := range products {
		fmt.Fprintf(&b, msgProductInfo, i+1, p.Name, groupedInt(p.MinLimit), percent(p.InterestRate), p.PeriodMonths)
	}
	b.WriteString(msgSelectCurrency)
	b.WriteString("\n")
	b.WriteString(msgNoteConvert)
	return b.String()
}
