// Package state provides per-chat conversation sessions for Telegram bots:
// an FSM manager tracking the active action of each chat and a generic
// keyed store for in-progress data such as drafts.
//
// Both assume a single active writer per chat: updates from one chat are
// handled one at a time, while different chats may be served concurrently.
package state
