package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Flash keys written by every run.
const (
	FlashError    = "error"
	FlashFormData = "form_data"
)

// ErrNotRun means the run was skipped because params or rules were empty.
// It is distinct from a run that found zero errors.
var ErrNotRun = errors.New("validation: no params or rules supplied")

// Flasher stores values for exactly one subsequent read.
// framework/session.Flash is the production implementation.
type Flasher interface {
	// Add appends value to the list stored under key.
	Add(ctx context.Context, key string, value any) error
	// PopFirst returns the first entry under key and clears the whole list.
	PopFirst(ctx context.Context, key string) (any, bool, error)
}

// ── Result ───────────────────────────────────────────────────────────────────

// ErrorMap is keyed by "<field>_<rule token>", e.g. "name_max_length=20".
type ErrorMap map[string]string

// Result is the outcome of a run. JSON: {"errors": {"name_required": "..."}}
type Result struct {
	Errors ErrorMap `json:"errors"`

	fields map[string]string
}

// Fails returns true if any rule failed.
func (r *Result) Fails() bool { return len(r.Errors) > 0 }

// Passes returns true if every rule passed.
func (r *Result) Passes() bool { return !r.Fails() }

// First returns the message of the rule that stopped field, or "".
func (r *Result) First(field string) string { return r.fields[field] }

// ── Engine ───────────────────────────────────────────────────────────────────

// Engine evaluates rule sets. It keeps no per-run state, so a single Engine
// can serve concurrent requests.
type Engine struct {
	validators map[RuleName]ValidatorFunc
	log        zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine over the fixed rule catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		validators: catalog,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates params against rules.
//
// Each field's rules run in order and stop at the first failure; other
// fields are still evaluated. Every failing message is flashed under
// FlashError, and params are flashed under FlashFormData once at the end
// whether or not anything failed. A nil flash disables flashing.
//
//	res, err := engine.Run(ctx, flash, params, rules)
//	if errors.Is(err, validation.ErrNotRun) { ... }
//	if res.Fails() { redirect back }
func (e *Engine) Run(ctx context.Context, flash Flasher, params Params, rules RuleSet) (*Result, error) {
	if len(params) == 0 || len(rules) == 0 {
		return nil, ErrNotRun
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Errors: make(ErrorMap),
		fields: make(map[string]string),
	}

	for _, fr := range rules {
		for _, rule := range fr.Rules {
			validate, ok := e.validators[rule.Token.Name]
			if !ok {
				e.log.Debug().
					Str("field", fr.Field).
					Str("rule", rule.Token.Raw).
					Msg("skipping unknown rule")
				continue
			}

			passed := validate(Check{
				Params: params,
				Field:  fr.Field,
				Arg:    rule.Token.Arg,
				HasArg: rule.Token.HasArg,
			})
			if passed {
				continue
			}

			res.Errors[fr.Field+"_"+rule.Token.Raw] = rule.Message
			res.fields[fr.Field] = rule.Message
			if err := e.flash(ctx, flash, FlashError, rule.Message); err != nil {
				return nil, err
			}
			break
		}
	}

	if err := e.flash(ctx, flash, FlashFormData, params); err != nil {
		return nil, err
	}

	e.log.Debug().
		Int("fields", len(rules)).
		Int("errors", len(res.Errors)).
		Msg("validation run complete")

	return res, nil
}

func (e *Engine) flash(ctx context.Context, flash Flasher, key string, value any) error {
	if flash == nil {
		return nil
	}
	if err := flash.Add(ctx, key, value); err != nil {
		return fmt.Errorf("validation: flash %s: %w", key, err)
	}
	return nil
}

// ── Flash readers ────────────────────────────────────────────────────────────

// FormData pops the params flashed by the previous run, for redisplaying a
// form with the user's last input.
func FormData(ctx context.Context, flash Flasher) (Params, bool, error) {
	v, ok, err := flash.PopFirst(ctx, FlashFormData)
	if err != nil || !ok {
		return nil, false, err
	}
	switch data := v.(type) {
	case Params:
		return data, true, nil
	case map[string]any:
		return Params(data), true, nil
	}
	return nil, false, fmt.Errorf("validation: flashed form data has type %T", v)
}

// LastError pops the first flashed error message.
func LastError(ctx context.Context, flash Flasher) (string, bool, error) {
	v, ok, err := flash.PopFirst(ctx, FlashError)
	if err != nil || !ok {
		return "", false, err
	}
	msg, isStr := v.(string)
	if !isStr {
		return "", false, fmt.Errorf("validation: flashed error has type %T", v)
	}
	return msg, true, nil
}
