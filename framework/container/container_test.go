package container_test

import (
	"sync"
	"testing"

	"github.com/km-arc/go-formcheck/framework/container"
)

type engineStub struct{ id int }

// ── Bind / Singleton / Instance ───────────────────────────────────────────────

func TestBind_NewInstanceEachMake(t *testing.T) {
	c := container.New()
	n := 0
	c.Bind("engine", func(c *container.Container) any {
		n++
		return &engineStub{id: n}
	})

	a := container.Resolve[*engineStub](c, "engine")
	b := container.Resolve[*engineStub](c, "engine")
	if a == b {
		t.Error("Bind should build a new instance on every Make")
	}
	if c.Resolved("engine") {
		t.Error("transient bindings are never cached")
	}
}

func TestSingleton_SameInstance(t *testing.T) {
	c := container.New()
	c.Singleton("engine", func(c *container.Container) any { return &engineStub{} })

	a := c.Make("engine")
	b := c.Make("engine")
	if a != b {
		t.Error("Singleton should return the cached instance")
	}
	if !c.Resolved("engine") {
		t.Error("Resolved() should be true after first Make")
	}
}

func TestSingleton_ConcurrentMake(t *testing.T) {
	c := container.New()
	c.Singleton("engine", func(c *container.Container) any { return &engineStub{} })

	results := make([]any, 32)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Make("engine")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != results[0] {
			t.Fatalf("result %d differs from first result", i)
		}
	}
}

func TestSingleton_RebindDropsCachedInstance(t *testing.T) {
	c := container.New()
	c.Singleton("driver", func(c *container.Container) any { return "memory" })
	_ = c.Make("driver")

	c.Singleton("driver", func(c *container.Container) any { return "redis" })
	if got := c.Make("driver"); got != "redis" {
		t.Errorf("driver: got %v, want redis", got)
	}
}

func TestInstance(t *testing.T) {
	c := container.New()
	stub := &engineStub{id: 9}
	c.Instance("engine", stub)

	if got := container.Resolve[*engineStub](c, "engine"); got != stub {
		t.Error("Instance should be returned as-is")
	}
}

func TestNew_BindsItself(t *testing.T) {
	c := container.New()
	if got := container.Resolve[*container.Container](c, "container"); got != c {
		t.Error(`"container" should resolve to the container itself`)
	}
}

// ── Alias ─────────────────────────────────────────────────────────────────────

func TestAlias(t *testing.T) {
	c := container.New()
	c.Instance("config", "cfg")
	c.Alias("config", "configuration")

	if got := c.Make("configuration"); got != "cfg" {
		t.Errorf("alias: got %v, want cfg", got)
	}
	if !c.Bound("configuration") {
		t.Error("Bound() should follow aliases")
	}
}

func TestAlias_SelfPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("aliasing a name to itself should panic")
		}
	}()
	container.New().Alias("x", "x")
}

// ── Resolution failures ───────────────────────────────────────────────────────

func TestMake_UnboundPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Make of an unbound abstract should panic")
		}
	}()
	container.New().Make("missing")
}

func TestResolve_WrongTypePanics(t *testing.T) {
	c := container.New()
	c.Instance("port", "8000")
	defer func() {
		if recover() == nil {
			t.Error("Resolve with the wrong type should panic")
		}
	}()
	container.Resolve[int](c, "port")
}

func TestTryResolve(t *testing.T) {
	c := container.New()
	c.Instance("port", "8000")

	if v, ok := container.TryResolve[string](c, "port"); !ok || v != "8000" {
		t.Errorf("TryResolve[string]: got (%q, %v)", v, ok)
	}
	if _, ok := container.TryResolve[int](c, "port"); ok {
		t.Error("TryResolve with the wrong type should report false")
	}
	if _, ok := container.TryResolve[string](c, "missing"); ok {
		t.Error("TryResolve of an unbound abstract should report false")
	}
}

// ── Helpers / callbacks ───────────────────────────────────────────────────────

func TestForget(t *testing.T) {
	c := container.New()
	c.Singleton("engine", func(c *container.Container) any { return &engineStub{} })
	_ = c.Make("engine")

	c.Forget("engine")
	if c.Bound("engine") {
		t.Error("Forget should remove binding and instance")
	}
}

func TestBindings_Sorted(t *testing.T) {
	c := container.New()
	c.Bind("view", func(c *container.Container) any { return nil })
	c.Instance("config", 1)

	got := c.Bindings()
	want := []string{"config", "container", "view"}
	if len(got) != len(want) {
		t.Fatalf("Bindings(): got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bindings()[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAfterResolving(t *testing.T) {
	c := container.New()
	c.Singleton("engine", func(c *container.Container) any { return &engineStub{} })

	var seen []string
	c.AfterResolving(func(abstract string, _ any) { seen = append(seen, abstract) })

	c.Make("engine")
	c.Make("engine") // cached, no second event

	if len(seen) != 1 || seen[0] != "engine" {
		t.Errorf("AfterResolving events: got %v, want [engine]", seen)
	}
}

func TestFactory_CanResolveDependencies(t *testing.T) {
	c := container.New()
	c.Instance("prefix", "flash:")
	c.Singleton("key", func(c *container.Container) any {
		return container.Resolve[string](c, "prefix") + "sid"
	})

	if got := c.Make("key"); got != "flash:sid" {
		t.Errorf("key: got %v, want flash:sid", got)
	}
}
