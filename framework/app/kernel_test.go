package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-formcheck/framework/app"
	"github.com/km-arc/go-formcheck/framework/session"
)

const formsYAML = `
contact:
  - field: email
    rules: required|email
    messages: [Email is required, Email is invalid]
`

// setup points the config at a temp forms file and returns a fresh app.
func setup(t *testing.T, env map[string]string) *app.Application {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(formsYAML), 0o600))

	t.Setenv("FORMS_PATH", path)
	t.Setenv("VIEW_DIR", dir)
	t.Setenv("SESSION_DRIVER", "memory")
	t.Setenv("APP_ENV", "testing")
	for k, v := range env {
		t.Setenv(k, v)
	}
	return app.New(app.WithEnvFiles(filepath.Join(dir, "missing.env")), app.WithLogOutput(io.Discard))
}

func TestNew_BootsCoreServices(t *testing.T) {
	a := setup(t, nil)
	a.Boot()

	assert.Equal(t, []string{"contact"}, a.Forms().Names())
	assert.NotNil(t, a.Validator())
	assert.NotNil(t, a.Views())
	assert.Equal(t, "testing", a.Environment())
	assert.IsType(t, &session.MemoryStore{}, a.Sessions())

	// the memory driver never needs the deferred redis client
	assert.False(t, a.Resolved("redis"))
}

func TestNew_RedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	a := setup(t, map[string]string{
		"SESSION_DRIVER": "redis",
		"REDIS_HOST":     mr.Host(),
		"REDIS_PORT":     mr.Port(),
	})
	a.Boot()

	assert.IsType(t, &session.RedisStore{}, a.Sessions())
	assert.True(t, a.Resolved("redis"))
}

func TestNew_UnknownSessionDriverPanics(t *testing.T) {
	a := setup(t, map[string]string{"SESSION_DRIVER": "cookie"})
	assert.Panics(t, func() { a.Boot() })
}

func TestNew_MissingFormsFileIsEmpty(t *testing.T) {
	a := setup(t, nil)
	t.Setenv("FORMS_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	a.Boot()
	assert.Empty(t, a.Forms().Names())
}

func TestRouter_HasSessionMiddleware(t *testing.T) {
	a := setup(t, nil)
	a.Boot()

	var attached bool
	a.Router().Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		_, attached = session.FromContext(r.Context())
	})

	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.True(t, attached)
	assert.NotEmpty(t, rr.Result().Cookies())
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	a := setup(t, map[string]string{"APP_PORT": "0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
