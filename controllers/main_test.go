package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coursehub/config"
	"coursehub/controllers"
	"coursehub/membership"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/router"
	"coursehub/storage"
	"coursehub/testutil"
	"coursehub/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "s3cret-pass"

type env struct {
	db       *gorm.DB
	cfg      config.Configuration
	provider *testutil.MockProvider
	mail     *testutil.RecordingMailer
	pub      *testutil.RecordingPublisher
	srv      *httptest.Server
}

type envOption func(*env, *middleware.Limiter)

func withLiveBilling() envOption {
	return func(e *env, _ *middleware.Limiter) { e.provider.Live = true }
}

func withLimiter(l middleware.Limiter) envOption {
	return func(_ *env, dst *middleware.Limiter) { *dst = l }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.SessionSecret = "test-session-secret-0123456789ab"

	e := &env{
		db:       testutil.NewDB(t),
		cfg:      cfg,
		provider: &testutil.MockProvider{},
		mail:     &testutil.RecordingMailer{},
		pub:      &testutil.RecordingPublisher{},
	}
	var limiter middleware.Limiter
	for _, opt := range opts {
		opt(e, &limiter)
	}

	services := &controllers.Services{
		Config:      cfg,
		Memberships: membership.NewService(e.db, e.provider, e.mail, e.pub, zerolog.Nop()),
		Videos:      storage.NewVideoResolver(cfg),
		Mailer:      e.mail,
		Events:      e.pub,
		Logger:      zerolog.Nop(),
	}
	engine := gin.New()
	require.NoError(t, router.Initialize(engine, e.db, services, limiter))

	e.srv = httptest.NewServer(engine)
	t.Cleanup(e.srv.Close)
	t.Cleanup(func() { e.provider.AssertExpectations(t) })
	return e
}

// user cria uma conta com senha real (bcrypt) para os fluxos de login.
func (e *env) user(t *testing.T, username string, admin bool) models.User {
	t.Helper()
	hash, err := tools.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{Username: username, Email: username + "@example.com", Password: hash, Admin: admin}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

type page struct {
	Status   int
	Body     string
	Location string
}

func (e *env) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: e.srv.URL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	res, err := b.http.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(b.t, err)
	return page{Status: res.StatusCode, Body: string(body), Location: res.Header.Get("Location")}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(username string) {
	b.t.Helper()
	p := b.post("/accounts/login/", url.Values{"login": {username}, "password": {testPassword}})
	require.Equal(b.t, http.StatusFound, p.Status, p.Body)
}

// api faz chamadas JSON com bearer token opcional.
func (b *browser) api(method, path, token string, payload any) (int, map[string]any) {
	b.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(b.t, err)
		body = strings.NewReader(string(raw))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, b.base+path, body)
	require.NoError(b.t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	p := b.do(req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(p.Body), "{") {
		require.NoError(b.t, json.Unmarshal([]byte(p.Body), &out), p.Body)
	}
	return p.Status, out
}

func (b *browser) apiLogin(username string) string {
	b.t.Helper()
	status, out := b.api(http.MethodPost, "/api/login", "", map[string]string{"login": username, "password": testPassword})
	require.Equal(b.t, http.StatusOK, status, out)
	return out["token"].(string)
}

func jsonRequest(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, target, strings.NewReader(string(raw)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}
