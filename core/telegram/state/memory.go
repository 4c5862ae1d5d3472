package state

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/m3rciful/bankbot/core/logger"
	"github.com/m3rciful/bankbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu    sync.RWMutex
	chats map[int64]*Session

	handlers sync.Map // State -> tele.HandlerFunc
}

// NewMemoryManager returns a process-local Manager. Sessions are lost on restart.
func NewMemoryManager() Manager {
	return &memoryManager{chats: make(map[int64]*Session)}
}

func (m *memoryManager) read(chatID int64, fn func(*Session)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.chats[chatID]; ok {
		fn(s)
	}
}

func (m *memoryManager) write(chatID int64, fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.chats[chatID]
	if !ok {
		s = &Session{State: StateIdle, TempData: make(map[string]any)}
		m.chats[chatID] = s
	}
	fn(s)
}

func (m *memoryManager) Get(chatID int64) Session {
	out := Session{State: StateIdle, TempData: map[string]any{}}
	m.read(chatID, func(s *Session) {
		out.State = s.State
		out.TempData = maps.Clone(s.TempData)
	})
	return out
}

func (m *memoryManager) GetState(chatID int64) State {
	st := StateIdle
	m.read(chatID, func(s *Session) { st = s.State })
	return st
}

func (m *memoryManager) SetState(chatID int64, st State) {
	m.write(chatID, func(s *Session) { s.State = st })
}

func (m *memoryManager) InProgress(chatID int64) bool {
	return m.GetState(chatID) != StateIdle
}

func (m *memoryManager) SetTemp(chatID int64, key string, value any) {
	m.write(chatID, func(s *Session) { s.TempData[key] = value })
}

func (m *memoryManager) GetTemp(chatID int64, key string) (v any, ok bool) {
	m.read(chatID, func(s *Session) { v, ok = s.TempData[key] })
	return v, ok
}

func (m *memoryManager) GetTempInt64(chatID int64, key string) (int64, bool) {
	v, _ := m.GetTemp(chatID, key)
	n, ok := v.(int64)
	return n, ok
}

func (m *memoryManager) ClearTemp(chatID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.chats[chatID]; ok {
		delete(s.TempData, key)
	}
}

func (m *memoryManager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, chatID)
}

func (m *memoryManager) RegisterHandler(st State, h tele.HandlerFunc) {
	if h != nil {
		m.handlers.Store(st, h)
	}
}

// ManagerHandler runs the handler registered for the chat's state. Updates
// of states without a handler are dropped.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	st := m.GetState(chat.ID)
	h, ok := m.handlers.Load(st)
	logger.Debug(helpers.RequestContext(c), "tg", "fsm.dispatch",
		slog.String("state", string(st)),
		slog.Bool("handled", ok),
	)
	if !ok {
		return nil
	}
	return h.(tele.HandlerFunc)(c)
}
