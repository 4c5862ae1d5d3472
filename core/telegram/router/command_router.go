package router

import (
	"strings"

	tg "github.com/m3rciful/bankbot/core/telegram"
	"github.com/m3rciful/bankbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandOptions configures CommandRoutes.
type CommandOptions struct {
	AdminID int64
	// OnDenied answers non-admins invoking an admin-only command.
	OnDenied tele.HandlerFunc
}

// CommandRoutes returns one route per registered command.
func CommandRoutes(reg *tg.Registry, opts CommandOptions) []tg.Route {
	adminOnly := middleware.AdminOnly(middleware.AdminOptions{AdminID: opts.AdminID, OnReject: opts.OnDenied})

	names := reg.Names()
	routes := make([]tg.Route, 0, len(names))
	for _, name := range names {
		cmd, _ := reg.Command(name)
		h := cmd.Handler
		if cmd.AdminOnly {
			h = adminOnly(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler:  summarize(strings.TrimPrefix(name, "/"), h),
		})
	}
	return routes
}
