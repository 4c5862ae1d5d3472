package state

import tele "gopkg.in/telebot.v4"

// State is the action a chat is engaged in.
type State string

// StateIdle means no conversation is active.
const StateIdle State = "idle"

// Session is a copy of one chat's state and temporary values.
type Session struct {
	State    State
	TempData map[string]any
}

// Manager tracks the state of every chat and dispatches updates of busy
// chats to the handler registered for their state.
type Manager interface {
	Get(chatID int64) Session
	GetState(chatID int64) State
	SetState(chatID int64, st State)
	InProgress(chatID int64) bool

	SetTemp(chatID int64, key string, value any)
	GetTemp(chatID int64, key string) (any, bool)
	GetTempInt64(chatID int64, key string) (int64, bool)
	ClearTemp(chatID int64, key string)
	// Clear drops the chat's state and temporary values.
	Clear(chatID int64)

	RegisterHandler(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}
