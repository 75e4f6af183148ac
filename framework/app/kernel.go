package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-formcheck/framework/config"
	"github.com/km-arc/go-formcheck/framework/container"
	"github.com/km-arc/go-formcheck/framework/forms"
	gohttp "github.com/km-arc/go-formcheck/framework/http"
	"github.com/km-arc/go-formcheck/framework/http/validation"
	"github.com/km-arc/go-formcheck/framework/providers"
	"github.com/km-arc/go-formcheck/framework/routing"
	"github.com/km-arc/go-formcheck/framework/session"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly —
// exactly like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// Option tweaks the core providers before they are registered.
type Option func(*options)

type options struct {
	envFiles  []string
	logOutput io.Writer
}

// WithEnvFiles loads the given .env files instead of ".env".
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithLogOutput sends logs to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// New creates the application and registers the framework core providers.
func New(opts ...Option) *Application {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	registry.Register(&providers.ConfigServiceProvider{EnvFiles: o.envFiles})
	registry.Register(&providers.LogServiceProvider{Output: o.logOutput})
	registry.Register(&providers.RedisServiceProvider{})
	registry.Register(&providers.SessionServiceProvider{})
	registry.Register(&providers.ValidationServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})
	registry.Register(&providers.ViewServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Log resolves the application logger.
func (a *Application) Log() zerolog.Logger {
	return container.Resolve[zerolog.Logger](a.Container, "log")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Views resolves *gohttp.ViewEngine from the container.
func (a *Application) Views() *gohttp.ViewEngine {
	return container.Resolve[*gohttp.ViewEngine](a.Container, "view")
}

// Validator resolves the rule engine.
func (a *Application) Validator() *validation.Engine {
	return container.Resolve[*validation.Engine](a.Container, "validator")
}

// Forms resolves the named form rules.
func (a *Application) Forms() *forms.Registry {
	return container.Resolve[*forms.Registry](a.Container, "forms")
}

// Sessions resolves the flash store.
func (a *Application) Sessions() session.Store {
	return container.Resolve[session.Store](a.Container, "session.store")
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve is Run with a caller-controlled lifetime.
func (a *Application) Serve(ctx context.Context) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()
	log := a.Log()

	if mem, ok := a.Sessions().(*session.MemoryStore); ok {
		go sweep(ctx, mem, time.Minute, log)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info().
		Str("addr", "http://localhost"+srv.Addr).
		Str("env", cfg.App.Env).
		Str("session", cfg.Session.Driver).
		Msg("server started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func sweep(ctx context.Context, store *session.MemoryStore, every time.Duration, log zerolog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := store.Sweep(); n > 0 {
				log.Debug().Int("sessions", n).Msg("expired sessions swept")
			}
		}
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
