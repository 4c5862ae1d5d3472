// Package commands describes slash commands offered by a bot.
package commands

import tele "gopkg.in/telebot.v4"

// Command is a slash command. AdminOnly commands are rejected for everyone
// but the configured admin; Hidden ones are left out of the Telegram menu.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
}

// Visible reports whether the command belongs in the public command menu.
func (c Command) Visible() bool {
	return !c.Hidden && !c.AdminOnly
}
