package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-formcheck/framework/config"
	"github.com/km-arc/go-formcheck/framework/container"
	"github.com/km-arc/go-formcheck/framework/forms"
	gohttp "github.com/km-arc/go-formcheck/framework/http"
	"github.com/km-arc/go-formcheck/framework/http/validation"
	"github.com/km-arc/go-formcheck/framework/logger"
	"github.com/km-arc/go-formcheck/framework/routing"
	"github.com/km-arc/go-formcheck/framework/session"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"  → *config.Config
//   - "configuration" → alias of "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) any {
		return config.Load(envFiles...)
	})
	app.Alias("config", "configuration")
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the zerolog logger from LOG_LEVEL / LOG_PRETTY.
//
// Bound abstracts:
//   - "log" → zerolog.Logger
type LogServiceProvider struct {
	container.BaseProvider
	Output io.Writer // default: os.Stdout
}

func (p *LogServiceProvider) Register(app *container.Container) {
	out := p.Output
	app.Singleton("log", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		return logger.Configure(logger.Config{
			Level:  cfg.Log.Level,
			Pretty: cfg.Log.Pretty,
			Output: out,
		}).With().Str("app", cfg.App.Name).Logger()
	})
}

// ── RedisServiceProvider ──────────────────────────────────────────────────────

// RedisServiceProvider is deferred: the client is only built when something
// resolves "redis", which with the default memory session driver is never.
//
// Bound abstracts:
//   - "redis" → redis.UniversalClient
//
// Laravel equivalent:
//
//	// Illuminate\Redis\RedisServiceProvider (DeferrableProvider)
type RedisServiceProvider struct {
	container.BaseProvider
}

func (p *RedisServiceProvider) Register(app *container.Container) {
	app.Singleton("redis", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		var client redis.UniversalClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return client
	})
}

func (p *RedisServiceProvider) IsDeferred() bool   { return true }
func (p *RedisServiceProvider) Provides() []string { return []string{"redis"} }

// ── SessionServiceProvider ────────────────────────────────────────────────────

// SessionServiceProvider binds the flash store selected by SESSION_DRIVER and
// the middleware that attaches a flash bag to each request.
//
// Bound abstracts:
//   - "session.store"      → session.Store (*MemoryStore or *RedisStore)
//   - "session.middleware" → func(http.Handler) http.Handler
type SessionServiceProvider struct {
	container.BaseProvider
}

func (p *SessionServiceProvider) Register(app *container.Container) {
	app.Singleton("session.store", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		store, err := newSessionStore(c, cfg.Session)
		if err != nil {
			panic(err.Error())
		}
		return store
	})

	app.Singleton("session.middleware", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		log := container.Resolve[zerolog.Logger](c, "log")
		store := container.Resolve[session.Store](c, "session.store")
		return session.Middleware(store, session.Options{
			CookieName: cfg.Session.Cookie,
			Lifetime:   cfg.Session.Lifetime,
			Secure:     cfg.Session.Secure,
		}, log)
	})
}

// Boot checks the Redis connection up front so a bad REDIS_HOST shows in
// the startup log instead of on the first form submission.
func (p *SessionServiceProvider) Boot(app *container.Container) {
	store := container.Resolve[session.Store](app, "session.store")
	rs, ok := store.(*session.RedisStore)
	if !ok {
		return
	}
	log := container.Resolve[zerolog.Logger](app, "log")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis session store unreachable")
		return
	}
	log.Info().Msg("redis session store ready")
}

func newSessionStore(c *container.Container, cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Driver {
	case "memory", "":
		return session.NewMemoryStore(cfg.Lifetime), nil
	case "redis":
		client := container.Resolve[redis.UniversalClient](c, "redis")
		return session.NewRedisStore(client, cfg.Prefix, cfg.Lifetime), nil
	default:
		return nil, fmt.Errorf("session: unsupported driver %q", cfg.Driver)
	}
}

// ── ValidationServiceProvider ─────────────────────────────────────────────────

// ValidationServiceProvider binds the rule engine and the named form rules.
//
// Bound abstracts:
//   - "validator" → *validation.Engine
//   - "forms"     → *forms.Registry (loaded from FORMS_PATH)
//
// Laravel equivalent:
//
//	// Illuminate\Validation\ValidationServiceProvider
//	$app->singleton('validator', fn($app) => new Factory(...));
type ValidationServiceProvider struct {
	container.BaseProvider
}

func (p *ValidationServiceProvider) Register(app *container.Container) {
	app.Singleton("validator", func(c *container.Container) any {
		log := container.Resolve[zerolog.Logger](c, "log")
		return validation.New(validation.WithLogger(log.With().Str("component", "validation").Logger()))
	})

	app.Singleton("forms", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		log := container.Resolve[zerolog.Logger](c, "log")

		reg, err := forms.LoadFile(cfg.Paths.Forms)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Warn().Str("path", cfg.Paths.Forms).Msg("no form definitions found")
			return forms.NewRegistry()
		case err != nil:
			panic(err.Error())
		}
		log.Info().Strs("forms", reg.Names()).Msg("form rules loaded")
		return reg
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) any {
		return routing.New(container.Resolve[zerolog.Logger](c, "log"))
	})
}

// Boot installs the session middleware ahead of any application routes.
func (p *RoutingServiceProvider) Boot(app *container.Container) {
	router := container.Resolve[*routing.Router](app, "router")
	mw := container.Resolve[func(http.Handler) http.Handler](app, "session.middleware")
	router.Middleware(mw)
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider registers the template engine.
//
// Bound abstracts:
//   - "view"   → *gohttp.ViewEngine
//
// Templates are read from VIEW_DIR (default "resources/views").
//
// Laravel equivalent:
//
//	// Illuminate\View\ViewServiceProvider
//	$app->singleton('view', fn($app) => new Factory(...));
type ViewServiceProvider struct {
	container.BaseProvider
	Ext string // file extension, default: ".html"
}

func (p *ViewServiceProvider) Register(app *container.Container) {
	ext := p.Ext
	if ext == "" {
		ext = ".html"
	}

	app.Singleton("view", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		return gohttp.NewViewEngine(cfg.Paths.Views, ext)
	})
}
