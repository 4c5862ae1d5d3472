package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m3rciful/bankbot/internal/currency"
)

func TestRateOfReadsFirstMid(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"table":"A","code":"USD","rates":[{"no":"1","mid":3.9876},{"mid":1}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"}, srv.Client())
	rate, err := c.RateOf(context.Background(), currency.USD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.String() != "3.9876" {
		t.Fatalf("expected 3.9876, got %s", rate)
	}
	if gotPath != "/USD/" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestRateOfFailures(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		},
		"malformed": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"rates":`))
		},
		"empty": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"rates":[]}`))
		},
		"no mid": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"rates":[{"no":"1"}]}`))
		},
	}
	for name, h := range cases {
		h := h
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL}, srv.Client())
			if _, err := c.RateOf(context.Background(), currency.EUR); !errors.Is(err, ErrRequestFailed) {
				t.Fatalf("expected ErrRequestFailed, got %v", err)
			}
		})
	}
}

func TestRateOfTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url}, nil)
	if _, err := c.RateOf(context.Background(), currency.GBP); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}
