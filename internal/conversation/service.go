// Package conversation implements the chat dialogue of the bank bot: the
// main menu, the agreement creation state machine, currency rate inquiries
// and the manager review of new agreements.
//
// Every inbound text is handled to completion before the next one for the
// same chat. Different chats share nothing but the session stores, which are
// safe for concurrent use.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/state"
	"github.com/m3rciful/bankbot/internal/agreement"
	"github.com/m3rciful/bankbot/internal/currency"
	"github.com/m3rciful/bankbot/internal/product"
	"github.com/m3rciful/bankbot/internal/user"
)

// Catalog looks up active products.
type Catalog interface {
	ActiveTypes(ctx context.Context) ([]product.Type, error)
	ActiveProductsOfType(ctx context.Context, t product.Type) ([]product.Product, error)
	SuitableProduct(ctx context.Context, t product.Type, amount decimal.Decimal, periodMonths int) (product.Product, error)
	EntryProduct(ctx context.Context, t product.Type) (product.Product, error)
}

// Rates returns the mid-rate of a currency expressed in the base currency.
type Rates interface {
	RateOf(ctx context.Context, code currency.Code) (decimal.Decimal, error)
}

// Agreements finalizes drafts and serves the manager review.
type Agreements interface {
	Create(ctx context.Context, a agreement.Agreement) (agreement.Agreement, error)
	NewAgreements(ctx context.Context) ([]agreement.Agreement, error)
	Get(ctx context.Context, id int64) (agreement.Agreement, error)
	Confirm(ctx context.Context, id int64) error
	Block(ctx context.Context, id int64) error
}

// Deps are the collaborators of a Service.
type Deps struct {
	Sessions   state.Manager
	Drafts     state.Store[*Draft]
	Catalog    Catalog
	Rates      Rates
	Agreements Agreements
}

// Service turns inbound chat texts into replies.
type Service struct {
	sessions   sessions
	catalog    Catalog
	rates      Rates
	agreements Agreements
	now        func() time.Time

	turns state.ChatLocks
}

// NewService wires a Service. Nil session stores are replaced with in-memory ones.
func NewService(deps Deps) *Service {
	if deps.Sessions == nil {
		deps.Sessions = state.NewMemoryManager()
	}
	if deps.Drafts == nil {
		deps.Drafts = state.NewMemoryStore[*Draft]()
	}
	return &Service{
		sessions:   sessions{actions: deps.Sessions, drafts: deps.Drafts},
		catalog:    deps.Catalog,
		rates:      deps.Rates,
		agreements: deps.Agreements,
		now:        time.Now,
	}
}

// Reset drops the pending action and draft of chatID.
func (s *Service) Reset(chatID int64) {
	defer s.turns.Lock(chatID)()
	s.sessions.reset(chatID)
}

// Handle processes one inbound text. Input and lookup failures are answered
// locally; errors from external services are returned and leave the session
// untouched so the same input may be retried. Turns of one chat run one at
// a time.
func (s *Service) Handle(ctx context.Context, chatID int64, text string, role user.Role) (Reply, error) {
	defer s.turns.Lock(chatID)()
	text = strings.TrimSpace(text)

	switch text {
	case CommandStart:
		s.sessions.reset(chatID)
		return menuReply(role, msgWelcome+"\n\n"+msgSelectAction), nil
	case ButtonExit:
		s.sessions.reset(chatID)
		return Reply{Text: msgSessionClosed, Buttons: []string{CommandStart}}, nil
	}

	action := s.sessions.action(chatID)
	if text == ButtonBack && !(action == ActionNewAgreements && s.hasSelection(chatID)) {
		s.sessions.reset(chatID)
		return menuReply(role, msgSelectAction), nil
	}

	logger.Debug(ctx, "tg", "conversation.turn",
		slog.Int64("chat_id", chatID),
		slog.String("state", string(action)),
	)

	switch action {
	case ActionProducts:
		return s.handleAgreement(ctx, chatID, text, role)
	case ActionCurrencyRates:
		return s.handleRates(ctx, chatID, text)
	case ActionNewAgreements:
		if !role.IsManager() {
			s.sessions.reset(chatID)
			return menuReply(role, msgAccessDenied), nil
		}
		return s.handleReview(ctx, chatID, text)
	}
	return s.selectAction(ctx, chatID, text, role)
}

func (s *Service) selectAction(ctx context.Context, chatID int64, text string, role user.Role) (Reply, error) {
	var (
		action state.State
		start  func(context.Context, int64) (Reply, error)
	)
	switch text {
	case ButtonProducts:
		action, start = ActionProducts, s.listProductTypes
	case ButtonCurrencyRates:
		action, start = ActionCurrencyRates, s.listCurrencies
	case ButtonNewAgreements:
		if !role.IsManager() {
			return menuReply(role, msgAccessDenied), nil
		}
		action, start = ActionNewAgreements, s.listNewAgreements
	default:
		return menuReply(role, msgUnknownInput), nil
	}

	reply, err := start(ctx, chatID)
	if err != nil {
		return Reply{}, err
	}
	s.sessions.begin(chatID, action)
	return reply, nil
}
