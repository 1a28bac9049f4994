package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobooks/internal/adapter/http/middleware"
	"github.com/iho/gobooks/internal/adapter/repository/idgen"
	"github.com/iho/gobooks/internal/adapter/repository/memory"
	redisrepo "github.com/iho/gobooks/internal/adapter/repository/redis"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
	"github.com/iho/gobooks/internal/usecase"
)

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	db := memory.NewDB()
	ids := idgen.NewULIDGenerator()
	accountRepo := memory.NewAccountRepository(db)
	journalRepo := memory.NewJournalRepository(db)

	cfg := RouterConfig{
		AccountHandler: handler.NewAccountHandler(usecase.NewAccountUseCase(accountRepo, ids)),
		JournalHandler: handler.NewJournalHandler(usecase.NewJournalUseCase(memory.NewTxManager(db), journalRepo, ids)),
		ReportHandler:  handler.NewReportHandler(usecase.NewReportUseCase(accountRepo, journalRepo)),
		LedgerHandler:  handler.NewLedgerHandler(usecase.NewLedgerUseCase(memory.NewLedgerRepository(db))),
		HealthHandler:  handler.NewHealthHandler(),
		Gatherer:       prometheus.NewRegistry(),
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createAccount(t *testing.T, h http.Handler, name, category string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/accounts/", fmt.Sprintf(`{"name":%q,"category":%q}`, name, category))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: %d %s", name, rec.Code, rec.Body.String())
	}
	var acc dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &acc); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	return acc.ID
}

func saleBody(cash, sales string) string {
	return fmt.Sprintf(`{"date":"2024-01-15","debit":[{"account":%q,"amount":"500"}],"credit":[{"account":%q,"amount":"500"}]}`, cash, sales)
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	if rec := do(t, router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /ready to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_BookkeepingFlow(t *testing.T) {
	router := NewRouter(newRouterConfig())

	cash := createAccount(t, router, "Cash", "asset")
	sales := createAccount(t, router, "Sales", "revenue")

	if rec := do(t, router, http.MethodPost, "/api/v1/accounts/", `{"name":"Cash","category":"asset"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected duplicate to return 409, got %d", rec.Code)
	}

	if rec := do(t, router, http.MethodPost, "/api/v1/journal/", saleBody(cash, sales)); rec.Code != http.StatusCreated {
		t.Fatalf("record entry: %d %s", rec.Code, rec.Body.String())
	}

	rec := do(t, router, http.MethodGet, "/api/v1/journal/income", "")
	var income dto.IncomeStatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &income); err != nil {
		t.Fatalf("decode income: %v", err)
	}
	if income.TotalRevenue.String() != "500" || !income.TotalExpense.IsZero() {
		t.Fatalf("unexpected income statement: %+v", income)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/journal/ledger/"+cash, "")
	var ledger dto.LedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ledger); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if len(ledger.Debit) != 1 || ledger.Balance.Amount.String() != "500" {
		t.Fatalf("unexpected ledger: %+v", ledger)
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/journal/consistency", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected consistent journal, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodDelete, "/api/v1/journal/", "")
	var cleared dto.ClearJournalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cleared); err != nil {
		t.Fatalf("decode clear: %v", err)
	}
	if cleared.DeletedCount != 2 {
		t.Fatalf("expected 2 lines cleared, got %d", cleared.DeletedCount)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/journal/trial", "")
	var rows []dto.TrialBalanceRowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode trial: %v", err)
	}
	if len(rows) != 2 || !rows[0].Balance.IsZero() || !rows[1].Balance.IsZero() {
		t.Fatalf("expected zeroed trial balance after clear, got %+v", rows)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotentEntryRecording(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer client.Close()

	cfg := newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = redisrepo.NewIdempotencyStore(client)
		cfg.IdempotencyTTL = time.Hour
	})
	router := NewRouter(cfg)

	cash := createAccount(t, router, "Cash", "asset")
	sales := createAccount(t, router, "Sales", "revenue")

	for i := 0; i < 2; i++ {
		rec := do(t, router, http.MethodPost, "/api/v1/journal/", saleBody(cash, sales),
			apimiddleware.IdempotencyKeyHeader, "sale-1")
		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: %d %s", i, rec.Code, rec.Body.String())
		}
		if i == 1 && rec.Header().Get(apimiddleware.IdempotencyReplayHeader) != "true" {
			t.Fatalf("expected second attempt to be a replay")
		}
	}

	rec := do(t, router, http.MethodGet, "/api/v1/journal/", "")
	var journal dto.ListJournalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &journal); err != nil {
		t.Fatalf("decode journal: %v", err)
	}
	if journal.Total != 2 {
		t.Fatalf("expected one entry (2 lines), got %d lines", journal.Total)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = metrics.New(reg)
		cfg.Gatherer = reg
	}))

	do(t, router, http.MethodGet, "/api/v1/accounts/", "")

	rec := do(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gobooks_http_requests_total") {
		t.Fatalf("expected http metrics in exposition, got:\n%s", rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/accounts/",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/journal/",
		"POST /api/v1/journal/",
		"DELETE /api/v1/journal/",
		"GET /api/v1/journal/ledger/{id}",
		"GET /api/v1/journal/trial",
		"GET /api/v1/journal/income",
		"GET /api/v1/journal/balance",
		"GET /api/v1/journal/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantOrigin string
	}{
		{name: "any origin", origins: []string{"*"}, origin: "https://books.example", wantOrigin: "*"},
		{name: "listed origin", origins: []string{"https://books.example"}, origin: "https://books.example", wantOrigin: "https://books.example"},
		{name: "unlisted origin", origins: []string{"https://books.example"}, origin: "https://evil.example", wantOrigin: ""},
		{name: "disabled", origins: nil, origin: "https://books.example", wantOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(newRouterConfig(func(c *RouterConfig) {
				c.CORSAllowedOrigins = tt.origins
			}))

			rec := do(t, router, http.MethodOptions, "/api/v1/journal/", "",
				"Origin", tt.origin,
				"Access-Control-Request-Method", http.MethodPost,
				"Access-Control-Request-Headers", "Content-Type, Idempotency-Key",
			)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin == "" {
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected preflight 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != http.MethodPost {
				t.Fatalf("Access-Control-Allow-Methods = %q", got)
			}
		})
	}
}

func TestRouter_CORSActualRequest(t *testing.T) {
	router := NewRouter(newRouterConfig(func(c *RouterConfig) {
		c.CORSAllowedOrigins = []string{"*"}
	}))

	rec := do(t, router, http.MethodGet, "/api/v1/accounts/", "", "Origin", "https://books.example")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, apimiddleware.IdempotencyReplayHeader) {
		t.Fatalf("expected replay header to be exposed, got %q", got)
	}
}
