package conversation

import (
	"context"
	"fmt"

	"github.com/m3rciful/bankbot/internal/currency"
)

func rateButtons() []string {
	return append(currency.Strings(currency.Foreign()), ButtonBack)
}

func (s *Service) listCurrencies(context.Context, int64) (Reply, error) {
	return Reply{Text: msgSelectCurrency, Buttons: rateButtons()}, nil
}

// handleRates answers official rate inquiries until the chat goes back.
func (s *Service) handleRates(ctx context.Context, chatID int64, text string) (Reply, error) {
	if text == ButtonCurrencyRates {
		return s.listCurrencies(ctx, chatID)
	}
	code, ok := currency.Parse(text)
	if !ok || code.IsBase() {
		return Reply{Text: msgUnknownCurrency, Buttons: rateButtons()}, nil
	}
	rate, err := s.rateOf(ctx, code)
	if err != nil {
		return Reply{}, err
	}
	text = fmt.Sprintf(msgOfficialRate,
		code.Name(),
		s.now().Format(rateDateLayout),
		rate.StringFixed(4),
		code,
	)
	return Reply{Text: text, Buttons: rateButtons()}, nil
}
