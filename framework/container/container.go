package container

import (
	"fmt"
	"sort"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a value from the container.
type Factory func(c *Container) any

type binding struct {
	factory   Factory
	singleton bool
	deferred  bool // placeholder installed for a deferred provider
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a small service container modelled on Laravel's
// Illuminate\Container\Container: named bindings, singletons, pre-built
// instances and aliases, resolved through explicit factories.
//
// It is safe for concurrent use. Factories run without the lock held, so a
// factory may Make other abstracts.
type Container struct {
	mu             sync.RWMutex
	bindings       map[string]*binding
	instances      map[string]any
	aliases        map[string]string
	afterResolving []func(string, any)
}

// New creates an empty container bound to itself as "container".
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Make calls it again.
//
//	// Laravel: $app->bind(Validator::class, fn($app) => new Validator)
//	c.Bind("validation.result", func(c *container.Container) any { ... })
func (c *Container) Bind(abstract string, factory Factory) {
	c.register(abstract, factory, false)
}

// Singleton registers a factory whose first result is cached.
//
//	// Laravel: $app->singleton('redis', fn($app) => new RedisManager(...))
//	c.Singleton("redis", func(c *container.Container) any {
//	    cfg := container.Resolve[*config.Config](c, "config")
//	    return redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.register(abstract, factory, true)
}

func (c *Container) register(abstract string, factory Factory, singleton bool) {
	c.put(abstract, &binding{factory: factory, singleton: singleton})
}

func (c *Container) put(abstract string, b *binding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.instances, key)
	c.bindings[key] = b
}

// placeholder reports whether abstract is still bound to a deferred loader.
func (c *Container) placeholder(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[c.canonical(abstract)]
	return ok && b.deferred
}

// Instance registers a pre-built value.
//
//	// Laravel: $app->instance('config', $config)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

// Alias makes alias resolve to abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract. It panics when nothing is bound under the name,
// the same way a missing binding is fatal at boot in Laravel.
func (c *Container) Make(abstract string) any {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst
	}
	b, ok := c.bindings[key]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("container: no binding registered for [%s]", abstract))
	}

	instance := b.factory(c)

	if b.singleton {
		c.mu.Lock()
		// first writer wins if two goroutines raced through the factory
		if existing, ok := c.instances[key]; ok {
			instance = existing
		} else if c.bindings[key] == b {
			c.instances[key] = instance
		}
		c.mu.Unlock()
	}

	c.fireAfterResolving(key, instance)
	return instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether abstract has a binding or instance.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved reports whether abstract holds a cached instance.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget drops the binding and instance of abstract.
//
//	// Laravel: $app->forgetInstance('redis')
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
}

// Bindings lists every registered key, sorted.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{}, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		seen[k] = struct{}{}
	}
	for k := range c.instances {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// canonical must be called with mu held.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after a factory produced a value.
// Cached instances do not fire it again.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	// Instead of: engine := c.Make("validator").(*validation.Engine)
//	// Write:      engine := container.Resolve[*validation.Engine](c, "validator")
func Resolve[T any](c *Container, abstract string) T {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("container: Resolve[%T]: [%s] resolved to %T", *new(T), abstract, instance))
	}
	return typed
}

// TryResolve is Resolve without panics: false when abstract is unbound or
// holds another type.
func TryResolve[T any](c *Container, abstract string) (T, bool) {
	var zero T
	if !c.Bound(abstract) {
		return zero, false
	}
	typed, ok := c.Make(abstract).(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
