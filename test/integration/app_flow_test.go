package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"disease-predictor-be/internal/bootstrap"
	"disease-predictor-be/internal/config"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/internal/repository/memory"
	"disease-predictor-be/internal/server"
	"disease-predictor-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app       *fiber.App
	inference *httptest.Server
	calls     *atomic.Int32
	lastBody  *atomic.Value
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()
	return newTestEnvWith(t, mutate, bootstrap.Dependencies{})
}

func newTestEnvWith(t *testing.T, mutate func(*config.Config), deps bootstrap.Dependencies) *testEnv {
	t.Helper()

	env := &testEnv{calls: &atomic.Int32{}, lastBody: &atomic.Value{}}
	env.inference = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		env.lastBody.Store(string(body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction": "1", "message": "Likely X"}`))
	}))
	t.Cleanup(env.inference.Close)

	cfg := config.FromEnv()
	cfg.Database.Driver = "memory"
	cfg.Session.Driver = "memory"
	cfg.Session.Secret = "integration-secret"
	cfg.Session.CookieName = "sid"
	cfg.Session.TTL = 0
	cfg.Inference.URL = env.inference.URL
	cfg.Inference.MaxAttempts = 1
	cfg.App.TrustBodyUsername = false
	if mutate != nil {
		mutate(cfg)
	}

	deps.Logger = logger.NewNopLogger()
	deps.Publisher = events.NopPublisher{}
	container, err := bootstrap.NewContainer(context.Background(), cfg, deps)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	env.app = server.New(cfg, container).GetApp()
	return env
}

type response struct {
	status   int
	body     string
	location string
	cookie   string
}

func (e *testEnv) do(t *testing.T, method, path, cookie string, form url.Values) response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != "" {
		req.Header.Set("Cookie", "sid="+cookie)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)

	out := response{status: resp.StatusCode, body: string(raw), location: resp.Header.Get("Location")}
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			out.cookie = c.Value
		}
	}
	return out
}

func features(value string) url.Values {
	form := url.Values{}
	for i := 1; i <= 21; i++ {
		form.Set(fmt.Sprintf("feature_%d", i), value)
	}
	return form
}

func signup(t *testing.T, env *testEnv, username, password string) string {
	t.Helper()
	res := env.do(t, fiber.MethodPost, "/signup", "", url.Values{
		"username": {username},
		"name":     {"Alice"},
		"password": {password},
	})
	require.Equal(t, fiber.StatusOK, res.status)
	require.NotEmpty(t, res.cookie)
	return res.cookie
}

func TestSignupPredictHistory(t *testing.T) {
	env := newTestEnv(t, nil)

	cookie := signup(t, env, "alice", "secret1")

	res := env.do(t, fiber.MethodGet, "/", cookie, nil)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, "Welcome, Alice")

	form := features("1")
	form.Set("feature_2", "abc")
	res = env.do(t, fiber.MethodPost, "/predict", cookie, form)
	require.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, "Prediction: <strong>1</strong>")
	assert.Contains(t, res.body, "Likely X")

	var sent struct {
		InputData []*float64 `json:"input_data"`
	}
	require.NoError(t, json.Unmarshal([]byte(env.lastBody.Load().(string)), &sent))
	require.Len(t, sent.InputData, 21)
	assert.Nil(t, sent.InputData[1])
	assert.Equal(t, 1.0, *sent.InputData[0])

	res = env.do(t, fiber.MethodGet, "/history", cookie, nil)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, "History for alice")
	assert.Contains(t, res.body, "Likely X")
	assert.Contains(t, res.body, "1, -, 1")
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	signup(t, env, "bob", "secret1")

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"duplicate", url.Values{"username": {"bob"}, "password": {"another1"}}, "Username already exists. Please choose a different one."},
		{"short password", url.Values{"username": {"carol"}, "password": {"12345"}}, "Password should contain at least 6 characters."},
		{"missing username", url.Values{"password": {"secret1"}}, "Username is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.do(t, fiber.MethodPost, "/signup", "", tt.form)
			assert.Equal(t, fiber.StatusOK, res.status)
			assert.Equal(t, tt.want, res.body)
			assert.Empty(t, res.cookie)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	signup(t, env, "dave", "secret1")

	res := env.do(t, fiber.MethodPost, "/login", "", url.Values{"username": {"dave"}, "password": {"wrong!!"}})
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, "wrong password", res.body)

	res = env.do(t, fiber.MethodPost, "/login", "", url.Values{"username": {"nobody"}, "password": {"secret1"}})
	assert.Equal(t, "wrong password", res.body)

	res = env.do(t, fiber.MethodPost, "/login", "", url.Values{"username": {"dave"}, "password": {"secret1"}})
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.NotEmpty(t, res.cookie)

	res = env.do(t, fiber.MethodGet, "/history", res.cookie, nil)
	assert.Equal(t, fiber.StatusOK, res.status)
}

func TestGuardedRoutesRedirect(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, route := range []struct{ method, path string }{
		{fiber.MethodGet, "/predict"},
		{fiber.MethodPost, "/predict"},
		{fiber.MethodGet, "/history"},
	} {
		res := env.do(t, route.method, route.path, "", features("1"))
		assert.Equal(t, fiber.StatusFound, res.status, route.path)
		assert.Equal(t, "/login", res.location, route.path)
	}
	assert.Equal(t, int32(0), env.calls.Load(), "guard runs before any inference")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := signup(t, env, "erin", "secret1")

	res := env.do(t, fiber.MethodGet, "/logout", cookie, nil)
	assert.Equal(t, fiber.StatusFound, res.status)
	assert.Equal(t, "/", res.location)

	res = env.do(t, fiber.MethodGet, "/history", cookie, nil)
	assert.Equal(t, fiber.StatusFound, res.status, "old cookie no longer authenticates")

	res = env.do(t, fiber.MethodGet, "/logout", "", nil)
	assert.Equal(t, fiber.StatusFound, res.status, "logout without a session still redirects")
}

type undeletableSessions struct {
	contract.SessionRepository
}

func (undeletableSessions) Delete(context.Context, string) error {
	return errors.New("session store unavailable")
}

func TestLogoutStoreFailure(t *testing.T) {
	env := newTestEnvWith(t, nil, bootstrap.Dependencies{
		Sessions: undeletableSessions{SessionRepository: memory.NewSessionRepository(0)},
	})
	cookie := signup(t, env, "hank", "secret1")

	res := env.do(t, fiber.MethodGet, "/logout", cookie, nil)
	assert.Equal(t, fiber.StatusInternalServerError, res.status)
	assert.Equal(t, "Internal Server Error", res.body)

	res = env.do(t, fiber.MethodGet, "/history", cookie, nil)
	assert.Equal(t, fiber.StatusOK, res.status, "session survives a failed logout")
}

func TestAccountSurvivesLaterRequests(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := signup(t, env, "alice", "secret1")

	for i := 0; i < 20; i++ {
		res := env.do(t, fiber.MethodPost, "/login", "", url.Values{
			"username": {fmt.Sprintf("zzzzz%02d", i)},
			"password": {"overwrite-the-buffer"},
		})
		require.Equal(t, "wrong password", res.body)
	}

	res := env.do(t, fiber.MethodGet, "/", cookie, nil)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, "Welcome, Alice")

	res = env.do(t, fiber.MethodGet, "/history", cookie, nil)
	assert.Equal(t, fiber.StatusOK, res.status)

	res = env.do(t, fiber.MethodPost, "/login", "", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, "Welcome, Alice")
	assert.NotEmpty(t, res.cookie)
}

func TestHandlerPanicReturns500(t *testing.T) {
	env := newTestEnv(t, nil)
	env.app.Get("/panic", func(*fiber.Ctx) error {
		panic("boom")
	})

	res := env.do(t, fiber.MethodGet, "/panic", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, res.status)
	assert.Equal(t, "Internal Server Error", res.body)

	res = env.do(t, fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, fiber.StatusOK, res.status)
}

func TestPublicPages(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/", "/login", "/signup", "/symptoms", "/about", "/maps"} {
		res := env.do(t, fiber.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusOK, res.status, path)
		assert.Contains(t, res.body, "<html", path)
	}

	res := env.do(t, fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, `"status":"up"`)
}

func TestInferenceDownReturns500(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Inference.URL = "http://127.0.0.1:1/predict"
	})
	cookie := signup(t, env, "frank", "secret1")

	res := env.do(t, fiber.MethodPost, "/predict", cookie, features("1"))
	assert.Equal(t, fiber.StatusInternalServerError, res.status)
	assert.Equal(t, "Internal Server Error", res.body)

	res = env.do(t, fiber.MethodGet, "/history", cookie, nil)
	assert.Contains(t, res.body, "No predictions yet")
}

func TestLegacyTrustBodyUsername(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.App.TrustBodyUsername = true
	})
	signup(t, env, "gina", "secret1")

	form := features("2")
	form.Set("username", "gina")
	res := env.do(t, fiber.MethodPost, "/predict", "", form)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Contains(t, res.body, "Likely X")

	form.Set("username", "ghost")
	res = env.do(t, fiber.MethodPost, "/predict", "", form)
	assert.Equal(t, fiber.StatusNotFound, res.status)
	assert.Equal(t, "User not found", res.body)
}
