package state

import "sync"

// ChatLocks serializes work per chat while different chats proceed in
// parallel. The zero value is ready to use; idle chats hold no memory.
type ChatLocks struct {
	mu    sync.Mutex
	chats map[int64]*chatLock
}

type chatLock struct {
	mu      sync.Mutex
	waiters int
}

// Lock blocks until chatID is free and returns the matching unlock.
func (l *ChatLocks) Lock(chatID int64) (unlock func()) {
	l.mu.Lock()
	if l.chats == nil {
		l.chats = make(map[int64]*chatLock)
	}
	cl, ok := l.chats[chatID]
	if !ok {
		cl = &chatLock{}
		l.chats[chatID] = cl
	}
	cl.waiters++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()
		l.mu.Lock()
		if cl.waiters--; cl.waiters == 0 {
			delete(l.chats, chatID)
		}
		l.mu.Unlock()
	}
}
