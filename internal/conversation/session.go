package conversation

import (
	"github.com/m3rciful/bankbot/core/telegram/state"
)

// Actions a chat can be engaged in. Idle chats pick one from the main menu.
const (
	ActionProducts      state.State = "products"
	ActionCurrencyRates state.State = "currency_rates"
	ActionNewAgreements state.State = "new_agreements"
)

const tempAgreementID = "agreement_id"

// sessions keeps the per-chat action (FSM manager) and the agreement draft
// consistent: terminal transitions clear both together.
type sessions struct {
	actions state.Manager
	drafts  state.Store[*Draft]
}

func (s sessions) action(chatID int64) state.State {
	return s.actions.GetState(chatID)
}

func (s sessions) begin(chatID int64, action state.State) {
	s.actions.SetState(chatID, action)
}

func (s sessions) draft(chatID int64) (*Draft, bool) {
	d, ok := s.drafts.Get(chatID)
	return d, ok && d != nil
}

func (s sessions) saveDraft(chatID int64, d *Draft) {
	s.drafts.Put(chatID, d)
}

func (s sessions) reset(chatID int64) {
	s.drafts.Remove(chatID)
	s.actions.Clear(chatID)
}
