package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/bankbot/internal/agreement"
)

func (s *Service) hasSelection(chatID int64) bool {
	_, ok := s.sessions.actions.GetTempInt64(chatID, tempAgreementID)
	return ok
}

func (s *Service) listNewAgreements(ctx context.Context, _ int64) (Reply, error) {
	return s.newAgreementsReply(ctx, "")
}

func (s *Service) newAgreementsReply(ctx context.Context, prefix string) (Reply, error) {
	list, err := s.agreements.NewAgreements(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("list new agreements: %w", err)
	}
	if len(list) == 0 {
		return Reply{Text: prefix + msgNoNewAgreements, Buttons: []string{ButtonBack}}, nil
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(msgNewAgreements)
	buttons := make([]string, 0, len(list)+1)
	for _, a := range list {
		b.WriteString(agreementInfo(a))
		b.WriteString("\n")
		buttons = append(buttons, strconv.FormatInt(a.ID, 10))
	}
	b.WriteString("\n")
	b.WriteString(msgSelectAgreementID)
	return Reply{Text: b.String(), Buttons: append(buttons, ButtonBack)}, nil
}

// handleReview lets a manager pick a new agreement and confirm or block it.
// The picked id lives in the session temp data until the decision is made.
func (s *Service) handleReview(ctx context.Context, chatID int64, text string) (Reply, error) {
	id, selected := s.sessions.actions.GetTempInt64(chatID, tempAgreementID)
	if !selected {
		return s.selectAgreement(ctx, chatID, text)
	}

	var (
		review  func(context.Context, int64) error
		verdict string
	)
	switch text {
	case ButtonConfirm:
		review, verdict = s.agreements.Confirm, "confirmed"
	case ButtonBlock:
		review, verdict = s.agreements.Block, "blocked"
	case ButtonBack:
		s.sessions.actions.ClearTemp(chatID, tempAgreementID)
		return s.newAgreementsReply(ctx, "")
	default:
		return Reply{Text: msgUnknownInput, Buttons: reviewButtons()}, nil
	}

	err := review(ctx, id)
	switch {
	case errors.Is(err, agreement.ErrNotFound), errors.Is(err, agreement.ErrNotNew):
		s.sessions.actions.ClearTemp(chatID, tempAgreementID)
		return s.newAgreementsReply(ctx, msgWrongAgreementID+"\n\n")
	case err != nil:
		return Reply{}, fmt.Errorf("review agreement %d: %w", id, err)
	}
	s.sessions.actions.ClearTemp(chatID, tempAgreementID)
	return s.newAgreementsReply(ctx, fmt.Sprintf(msgAgreementReviewed, id, verdict))
}

func (s *Service) selectAgreement(ctx context.Context, chatID int64, text string) (Reply, error) {
	if text == ButtonNewAgreements {
		return s.newAgreementsReply(ctx, "")
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return s.wrongAgreement(ctx)
	}
	a, err := s.agreements.Get(ctx, id)
	if errors.Is(err, agreement.ErrNotFound) {
		return s.wrongAgreement(ctx)
	}
	if err != nil {
		return Reply{}, fmt.Errorf("get agreement %d: %w", id, err)
	}
	if a.Status != agreement.StatusNew {
		return s.wrongAgreement(ctx)
	}

	s.sessions.actions.SetTemp(chatID, tempAgreementID, a.ID)
	return Reply{
		Text: fmt.Sprintf(msgSelectedAgreement,
			a.ID, a.ProductName, a.Sum.StringFixed(2), a.Currency, a.PeriodMonths),
		Buttons: reviewButtons(),
	}, nil
}

func (s *Service) wrongAgreement(ctx context.Context) (Reply, error) {
	reply, err := s.newAgreementsReply(ctx, "")
	if err != nil {
		return Reply{}, err
	}
	if len(reply.Buttons) == 1 {
		return reply, nil
	}
	reply.Text = msgWrongAgreementID
	return reply, nil
}

func reviewButtons() []string {
	return []string{ButtonConfirm, ButtonBlock, ButtonBack}
}

func agreementInfo(a agreement.Agreement) string {
	return fmt.Sprintf(msgAgreementInfo, a.ID, a.ProductName, a.Sum.StringFixed(2), a.Currency, a.PeriodMonths)
}
