package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infra_eventbus "github.com/amirasaad/cpfledger/infra/eventbus"
	"github.com/amirasaad/cpfledger/pkg/app"
	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	"github.com/amirasaad/cpfledger/pkg/store"
	"github.com/amirasaad/cpfledger/webapi"
	"github.com/gofiber/fiber/v2"
)

// TestConfig returns an in-memory configuration with a generous rate limit.
func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Scheme: "http", Host: "127.0.0.1", Port: 0},
		Log:       &config.Log{Format: "text"},
		Ledger:    &config.Ledger{Timezone: "UTC"},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		EventBus: &config.EventBus{
			Driver: config.EventBusDriverMemory,
			Kafka:  &config.Kafka{},
		},
	}
}

// TestApp bundles a Fiber app with the pieces tests inspect.
type TestApp struct {
	Fiber *fiber.App
	App   *app.App
	Bus   *infra_eventbus.MemoryEventBus
}

// SetupTestApp builds the full HTTP stack on an in-memory store. Options are
// applied to the ledger engine.
func SetupTestApp(tb testing.TB, cfg *config.App, opts ...ledger.Option) *TestApp {
	tb.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infra_eventbus.NewWithMemory(logger)
	a := app.New(&app.Deps{
		Store:    store.NewMemory(),
		Engine:   ledger.New(opts...),
		EventBus: bus,
		Logger:   logger,
	}, cfg)
	return &TestApp{Fiber: webapi.SetupApp(a), App: a, Bus: bus}
}

// MakeRequest issues a request against app. A non-empty cpf is sent in the
// cpf header.
func MakeRequest(app *fiber.App, method, path, body, cpf string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cpf != "" {
		req.Header.Set("cpf", cpf)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// DecodeJSON decodes the response body into T and closes it.
func DecodeJSON[T any](tb testing.TB, resp *http.Response) T {
	tb.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		tb.Fatalf("decode response: %v", err)
	}
	return out
}
