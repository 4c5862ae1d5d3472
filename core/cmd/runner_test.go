package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/bankbot/core/config"
	coretelegram "github.com/m3rciful/bankbot/core/telegram"
)

type carrier struct{ core *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.core }

type appFunc func() (coretelegram.RunOptions, error)

func (f appFunc) TelegramRunOptions() (coretelegram.RunOptions, error) { return f() }

func TestRunWiresLifecycle(t *testing.T) {
	t.Parallel()

	var (
		loadedPath string
		steps      []string
	)
	err := Run(Options{
		ConfigEnvVar:      "BANKBOT_TEST_UNSET_CONFIG",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedPath = path
			return carrier{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return appFunc(func() (coretelegram.RunOptions, error) {
				return coretelegram.RunOptions{
					OnStart: func(context.Context, coretelegram.Runtime) error {
						steps = append(steps, "start")
						return nil
					},
					OnStop: func(context.Context, coretelegram.Runtime) error {
						steps = append(steps, "stop")
						return nil
					},
				}, nil
			}), nil
		},
		ShutdownLogger: func() error {
			steps = append(steps, "logger")
			return nil
		},
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loadedPath != "config.yaml" {
		t.Fatalf("expected the default path, got %q", loadedPath)
	}
	want := []string{"start", "stop", "logger"}
	if len(steps) != len(want) {
		t.Fatalf("expected %v, got %v", want, steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, steps)
		}
	}
}

func TestRunReportsBootstrapFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	var runCalled bool
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		ConfigEnvVar:      "BANKBOT_TEST_UNSET_CONFIG",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return carrier{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return nil, boom
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(context.Context, coretelegram.RunOptions) error {
			runCalled = true
			return nil
		},
	})
	if !errors.Is(err, boom) || runCalled {
		t.Fatalf("expected bootstrap error without running, got %v (run=%v)", err, runCalled)
	}
}

func TestRunRequiresHooks(t *testing.T) {
	t.Parallel()

	if err := Run(Options{}); err == nil {
		t.Fatal("expected an error without LoadConfig and Bootstrap")
	}
}
