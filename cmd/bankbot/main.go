package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/m3rciful/bankbot/core/bootstrap"
	corecmd "github.com/m3rciful/bankbot/core/cmd"
	"github.com/m3rciful/bankbot/core/telegram/state"
	"github.com/m3rciful/bankbot/internal/agreement"
	"github.com/m3rciful/bankbot/internal/bot"
	"github.com/m3rciful/bankbot/internal/config"
	"github.com/m3rciful/bankbot/internal/conversation"
	"github.com/m3rciful/bankbot/internal/httpapi"
	"github.com/m3rciful/bankbot/internal/product"
	"github.com/m3rciful/bankbot/internal/rates"
	"github.com/m3rciful/bankbot/internal/user"
)

func main() {
	// A missing .env is fine: the environment may be provided by the host.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: build,
	})
	if err != nil {
		log.Fatal(err)
	}
}

func build(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", carrier)
	}

	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	catalog := product.NewCatalog(product.NewRepository(infra.DB))
	rateClient := rates.NewClient(cfg.Rates, nil)
	agreements := agreement.NewService(agreement.NewRepository(infra.DB))
	roles := user.NewResolver(user.NewRepository(infra.DB), cfg.Telegram.AdminID)

	sessions := state.NewMemoryManager()
	conv := conversation.NewService(conversation.Deps{
		Sessions:   sessions,
		Drafts:     state.NewMemoryStore[*conversation.Draft](),
		Catalog:    catalog,
		Rates:      rateClient,
		Agreements: agreements,
	})

	// Stopped in order: the REST server drains before the pool closes.
	var extras []bot.Lifecycle
	if cfg.HTTP.Listen != "" {
		api := httpapi.NewHandler(catalog, rateClient, agreements)
		extras = append(extras, httpapi.NewServer(cfg.HTTP.Listen, api.Router(cfg.HTTP.AllowedOrigins)))
	}
	extras = append(extras, dbCloser{infra.DB})
	return bot.New(cfg, conv, roles, sessions, extras...), nil
}

type dbCloser struct{ db *sqlx.DB }

func (dbCloser) Start(context.Context) {}

func (d dbCloser) Shutdown(context.Context) error { return d.db.Close() }
