package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Flash is one session's flash bag. It satisfies validation.Flasher.
//
//	flash := session.NewFlash(store, sessionID)
//	_ = flash.Add(ctx, "error", "Name is required")
//	msg, ok, err := flash.PopFirst(ctx, "error")  // "Name is required", true, nil
//	msg, ok, err  = flash.PopFirst(ctx, "error")  // nil, false, nil
type Flash struct {
	store Store
	id    string
}

// NewFlash binds a Store to a session id.
func NewFlash(store Store, sessionID string) *Flash {
	return &Flash{store: store, id: sessionID}
}

// ID returns the session id.
func (f *Flash) ID() string { return f.id }

// Add JSON-encodes value and appends it under key.
func (f *Flash) Add(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: encode flash %s: %w", key, err)
	}
	return f.store.Push(ctx, f.id, key, b)
}

// PopFirst returns the first value under key and clears the list.
// Objects decode as map[string]any and numbers as json.Number.
func (f *Flash) PopFirst(ctx context.Context, key string) (any, bool, error) {
	values, err := f.All(ctx, key)
	if err != nil || len(values) == 0 {
		return nil, false, err
	}
	return values[0], true, nil
}

// All returns every value under key and clears the list.
func (f *Flash) All(ctx context.Context, key string) ([]any, error) {
	raw, err := f.store.Pull(ctx, f.id, key)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(raw))
	for _, b := range raw {
		v, err := decode(b)
		if err != nil {
			return nil, fmt.Errorf("session: decode flash %s: %w", key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Strings is All for lists of messages; non-string entries are skipped.
func (f *Flash) Strings(ctx context.Context, key string) ([]string, error) {
	values, err := f.All(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// ── Context ──────────────────────────────────────────────────────────────────

type ctxKey struct{}

// WithFlash returns a copy of ctx carrying flash.
func WithFlash(ctx context.Context, flash *Flash) context.Context {
	return context.WithValue(ctx, ctxKey{}, flash)
}

// FromContext returns the flash bag installed by Middleware.
func FromContext(ctx context.Context) (*Flash, bool) {
	f, ok := ctx.Value(ctxKey{}).(*Flash)
	return f, ok
}
