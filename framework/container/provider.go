package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register binds services and must not resolve anything. Boot runs after all
// providers are registered, so it may resolve freely.
//
//	type FormsServiceProvider struct{ container.BaseProvider }
//
//	func (p *FormsServiceProvider) Register(app *container.Container) {
//	    app.Singleton("forms", func(c *container.Container) any { ... })
//	}
type ServiceProvider interface {
	Register(app *Container)
	Boot(app *Container)

	// Provides lists the abstracts a deferred provider registers.
	//
	//	// Laravel: public function provides(): array { return ['redis']; }
	Provides() []string

	// IsDeferred delays Register until one of Provides() is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider gives no-op Boot, Provides and IsDeferred. Embed it and
// override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers, loading deferred ones on
// first use. Laravel: Application::registerConfiguredProviders + bootProviders.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]bool
	loads      map[ServiceProvider]*sync.Once
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
		loads:      make(map[ServiceProvider]*sync.Once),
	}
}

// Register adds a provider. Eager providers register immediately and boot
// immediately too if the registry has already booted.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.loads[provider] = new(sync.Once)
		r.mu.Unlock()
		r.deferProvider(provider)
		return
	}

	r.eager = append(r.eager, provider)
	r.loaded[provider] = true
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

// deferProvider binds a loader under each provided abstract. The loader
// registers the provider for real, which replaces it, and resolves again.
func (r *ProviderRegistry) deferProvider(provider ServiceProvider) {
	for _, abstract := range provider.Provides() {
		abs := abstract
		r.app.put(abs, &binding{deferred: true, factory: func(c *Container) any {
			r.load(provider)
			if c.placeholder(abs) {
				panic(fmt.Sprintf("container: deferred provider %T did not register [%s]", provider, abs))
			}
			return c.Make(abs)
		}})
	}
}

// load runs the deferred provider's Register, plus Boot when the registry
// has booted, exactly once.
func (r *ProviderRegistry) load(provider ServiceProvider) {
	r.mu.Lock()
	once := r.loads[provider]
	r.mu.Unlock()

	once.Do(func() {
		provider.Register(r.app)
		r.mu.Lock()
		r.loaded[provider] = true
		booted := r.booted
		if !booted {
			// Boot picks it up with the eager ones
			r.eager = append(r.eager, provider)
		}
		r.mu.Unlock()
		if booted {
			provider.Boot(r.app)
		}
	})
}

// Loaded reports whether provider has run its Register. Deferred providers
// load on first resolution of something they provide.
func (r *ProviderRegistry) Loaded(provider ServiceProvider) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded[provider]
}

// Boot calls Boot on every loaded provider once.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		provider.Boot(r.app)
	}
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers plus deferred ones loaded before Boot.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
