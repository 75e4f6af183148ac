// Package forms loads named validation rule sets from YAML.
//
//	contact:
//	  - field: name
//	    rules: required|max_length=20
//	    messages:
//	      - Name is required
//	      - Name max length 20 letters
//	  - field: email
//	    rules: required|email
//	    messages: [Email is required, Email is invalid]
//
// Fields keep their file order, which is the order they are validated in.
package forms

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-formcheck/framework/http/validation"
)

// ErrUnknownForm is returned by Registry.Rules for unregistered names.
var ErrUnknownForm = errors.New("forms: unknown form")

type fieldDef struct {
	Field    string   `yaml:"field"`
	Rules    string   `yaml:"rules"`
	Messages []string `yaml:"messages"`
}

// Registry maps form names to rule sets.
type Registry struct {
	forms map[string]validation.RuleSet
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{forms: make(map[string]validation.RuleSet)}
}

// Load parses a YAML document of form definitions.
func Load(r io.Reader) (*Registry, error) {
	var doc map[string][]fieldDef
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("forms: parse: %w", err)
	}

	reg := NewRegistry()
	for name, defs := range doc {
		b := validation.NewRuleSet()
		for i, d := range defs {
			if d.Field == "" {
				return nil, fmt.Errorf("forms: %s: entry %d has no field name", name, i)
			}
			b.Field(d.Field, d.Rules, d.Messages...)
		}
		rules, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("forms: %s: %w", name, err)
		}
		reg.Add(name, rules)
	}
	return reg, nil
}

// LoadFile reads form definitions from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("forms: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Add registers or replaces a form.
func (r *Registry) Add(name string, rules validation.RuleSet) {
	r.forms[name] = rules
}

// Get returns the rules of a form.
func (r *Registry) Get(name string) (validation.RuleSet, bool) {
	rules, ok := r.forms[name]
	return rules, ok
}

// Rules is Get with an error for unknown names.
func (r *Registry) Rules(name string) (validation.RuleSet, error) {
	rules, ok := r.forms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return rules, nil
}

// Names lists registered forms alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.forms))
	for n := range r.forms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
