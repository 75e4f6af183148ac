// Package container is the service container and provider system the
// application boots from.
//
// Go has no constructor reflection, so services are built by explicit
// factories registered under string keys, the way Laravel's
// Illuminate\Container\Container binds abstracts.
//
// # Lifecycle
//
//  1. c := container.New()
//  2. registry.Register(&providers.ConfigServiceProvider{}) and friends
//  3. registry.Boot()
//  4. serve requests
//
// # Bindings
//
//	// Laravel: $app->bind(...)
//	c.Bind("request.params", func(c *container.Container) any { ... })
//
//	// Laravel: $app->singleton('validator', ...)
//	c.Singleton("validator", func(c *container.Container) any {
//	    return validation.New(validation.WithLogger(container.Resolve[zerolog.Logger](c, "log")))
//	})
//
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", cfg)
//
//	c.Alias("config", "configuration")
//
// # Resolving
//
//	engine := container.Resolve[*validation.Engine](c, "validator")
//	client, ok := container.TryResolve[redis.UniversalClient](c, "redis")
//
// # Deferred Providers
//
// A deferred provider is registered only when one of its Provides() keys is
// first resolved. The Redis client is wired this way so the memory session
// driver never dials Redis.
//
//	type RedisServiceProvider struct{ container.BaseProvider }
//
//	func (p *RedisServiceProvider) IsDeferred() bool   { return true }
//	func (p *RedisServiceProvider) Provides() []string { return []string{"redis"} }
package container
