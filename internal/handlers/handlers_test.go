package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/argus-dev/argus/internal/auth"
	"github.com/argus-dev/argus/internal/events"
	"github.com/argus-dev/argus/internal/handlers"
	"github.com/argus-dev/argus/internal/models"
	"github.com/argus-dev/argus/internal/notifiers"
	"github.com/argus-dev/argus/internal/probes"
	"github.com/argus-dev/argus/internal/registry"
	"github.com/argus-dev/argus/internal/router"
	"github.com/argus-dev/argus/internal/scheduler"
)

type nopStore struct{}

func (nopStore) Save(models.Catalog) error { return nil }

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	if err := auth.InitJWTSecret(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type api struct {
	engine *gin.Engine
	reg    *registry.Registry
	token  string
}

func newAPI(t *testing.T) *api {
	t.Helper()

	reg := registry.New(nopStore{})
	bus := events.NewBus()
	sched := scheduler.New(scheduler.Config{
		Registry: reg,
		Prober:   &probes.Checker{Timeout: time.Second},
		Notifier: notifiers.Nop{},
		Bus:      bus,
		TickUnit: time.Second,
	})
	t.Cleanup(sched.Shutdown)

	token, err := auth.GenerateJWT("operator")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	h := handlers.New(reg, sched, bus)
	return &api{engine: router.NewRouter(h), reg: reg, token: token}
}

func (a *api) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func accountBody() map[string]any {
	return map[string]any{
		"name":        "acct1",
		"account_sid": "AC1",
		"auth_token":  "tok",
		"from_number": "+15550000000",
		"recipients":  []string{"+15551111111"},
		"methods":     []string{"sms"},
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	a := newAPI(t)
	a.token = ""

	w := a.do(t, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newAPI(t)
	a.token = ""

	w := a.do(t, http.MethodGet, "/api/accounts", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	a.token = "not-a-token"
	w = a.do(t, http.MethodGet, "/api/accounts", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	a := newAPI(t)
	a.token = ""

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))

	w := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "hunter2"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the login response")
	}
}

func TestCreateAccountAndList(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodPost, "/api/accounts", accountBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Duplicate name conflicts.
	w = a.do(t, http.MethodPost, "/api/accounts", accountBody())
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", w.Code)
	}

	w = a.do(t, http.MethodGet, "/api/accounts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("tok")) {
		t.Fatal("account listing must not expose the auth token")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("acct1")) {
		t.Fatalf("expected acct1 in listing, got %s", w.Body.String())
	}
}

func TestCreateAccountValidation(t *testing.T) {
	a := newAPI(t)

	body := accountBody()
	delete(body, "from_number")

	w := a.do(t, http.MethodPost, "/api/accounts", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing field, got %d", w.Code)
	}

	body = accountBody()
	body["methods"] = []string{"carrier-pigeon"}
	w = a.do(t, http.MethodPost, "/api/accounts", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown method, got %d", w.Code)
	}
}

func TestUpdateAccountCredentials(t *testing.T) {
	a := newAPI(t)

	a.do(t, http.MethodPost, "/api/accounts", accountBody())

	creds := map[string]string{"account_sid": "AC2", "auth_token": "tok2", "from_number": "+15559999999"}

	w := a.do(t, http.MethodPut, "/api/accounts/acct1/credentials", creds)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPut, "/api/accounts/ghost/credentials", creds)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", w.Code)
	}

	account, ok := a.reg.Account("acct1")
	if !ok || account.AccountSID != "AC2" {
		t.Fatalf("rotation not applied: %+v", account)
	}
}

func TestCreateJobValidation(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"name":   "j1",
		"kind":   "public",
		"target": "https://example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Bad regexp pattern.
	w = a.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"name":    "j2",
		"kind":    "public",
		"target":  "https://example.com",
		"pattern": "([",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad pattern, got %d", w.Code)
	}

	// Database kind without connection details.
	w = a.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"name": "j3",
		"kind": "database",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for database job without target, got %d", w.Code)
	}
}

func TestAlertLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)

	a.do(t, http.MethodPost, "/api/accounts", accountBody())
	a.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"name": "j1", "kind": "public", "target": "https://example.com",
	})

	// Dangling job reference.
	w := a.do(t, http.MethodPost, "/api/alerts", map[string]any{
		"name": "a0", "job_name": "ghost", "account_name": "acct1", "interval": 60,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for dangling job, got %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/alerts", map[string]any{
		"name": "a1", "job_name": "j1", "account_name": "acct1", "interval": 60,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, "/api/alerts/a1/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPost, "/api/alerts/a1/start", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("double start: expected 409, got %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/alerts/a1/pause", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pause: expected 200, got %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/alerts/a1/stop", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stop: expected 200, got %d", w.Code)
	}

	// Operations on an unknown alert.
	w = a.do(t, http.MethodPost, "/api/alerts/ghost/stop", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 stopping unknown alert, got %d", w.Code)
	}

	// Pausing a stopped alert conflicts.
	w = a.do(t, http.MethodPost, "/api/alerts/a1/pause", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 pausing a stopped alert, got %d", w.Code)
	}
}

func TestAlertIntervalTooShort(t *testing.T) {
	a := newAPI(t)

	a.do(t, http.MethodPost, "/api/accounts", accountBody())
	a.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"name": "j1", "kind": "public", "target": "https://example.com",
	})

	w := a.do(t, http.MethodPost, "/api/alerts", map[string]any{
		"name": "a1", "job_name": "j1", "account_name": "acct1", "interval": 10,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for sub-minute interval, got %d", w.Code)
	}
}

func TestSilences(t *testing.T) {
	a := newAPI(t)

	now := time.Now().UTC()

	w := a.do(t, http.MethodPost, "/api/silences", map[string]any{
		"start":  now.Add(-time.Hour).Format(time.RFC3339),
		"end":    now.Add(time.Hour).Format(time.RFC3339),
		"reason": "maintenance",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Inverted range.
	w = a.do(t, http.MethodPost, "/api/silences", map[string]any{
		"start":  now.Add(time.Hour).Format(time.RFC3339),
		"end":    now.Format(time.RFC3339),
		"reason": "backwards",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", w.Code)
	}

	w = a.do(t, http.MethodGet, "/api/silences", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Silences []models.SilencePeriod `json:"silences"`
		Silenced bool                   `json:"silenced"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Silences) != 1 {
		t.Fatalf("expected 1 silence, got %d", len(resp.Silences))
	}
	if !resp.Silenced {
		t.Fatal("expected silenced=true inside the window")
	}
}
