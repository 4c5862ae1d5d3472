package telegram

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/m3rciful/bankbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Registry collects the slash commands of a bot.
type Registry struct {
	commands map[string]commands.Command
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]commands.Command)}
}

// Register adds cmd under name, which must start with a slash.
func (r *Registry) Register(name string, cmd commands.Command) error {
	switch {
	case !strings.HasPrefix(name, "/") || len(name) < 2 || strings.ContainsAny(name, " @"):
		return fmt.Errorf("telegram: invalid command name %q", name)
	case cmd.Handler == nil:
		return fmt.Errorf("telegram: command %s has no handler", name)
	case cmd.Visible() && cmd.Description == "":
		return fmt.Errorf("telegram: command %s needs a description", name)
	}
	if _, dup := r.commands[name]; dup {
		return fmt.Errorf("telegram: command %s registered twice", name)
	}
	r.commands[name] = cmd
	return nil
}

// Names returns the registered command names in order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.commands))
}

// Command looks up a registered command by its name.
func (r *Registry) Command(name string) (commands.Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Menu lists the visible commands for setMyCommands.
func (r *Registry) Menu() []tele.Command {
	var menu []tele.Command
	for _, name := range r.Names() {
		if cmd := r.commands[name]; cmd.Visible() {
			menu = append(menu, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: cmd.Description})
		}
	}
	return menu
}
