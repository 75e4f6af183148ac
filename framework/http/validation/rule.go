package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ── Rule names ───────────────────────────────────────────────────────────────

// RuleName identifies one validator in the fixed catalog.
type RuleName string

const (
	Required       RuleName = "required"
	MinLength      RuleName = "min_length"
	MaxLength      RuleName = "max_length"
	IsNumeric      RuleName = "is_numeric"
	Integer        RuleName = "integer"
	GreatThan      RuleName = "great_than"
	LessThan       RuleName = "less_than"
	Alpha          RuleName = "alpha"
	AlphaNumeric   RuleName = "alpha_numeric"
	AlphaDash      RuleName = "alpha_dash"
	Email          RuleName = "email"
	InArray        RuleName = "in_array"
	IsArray        RuleName = "is_array"
	FormatDate     RuleName = "format_date"
	ItemsIsNumeric RuleName = "items_is_numeric"
	GreatThanField RuleName = "great_than_field"
	LessThanField  RuleName = "less_than_field"
)

// ErrRuleSpec is returned when a rule set cannot be evaluated safely,
// e.g. a field has fewer messages than rule tokens.
var ErrRuleSpec = errors.New("validation: malformed rule spec")

// ── Tokens ───────────────────────────────────────────────────────────────────

// Token is one parsed name[=arg] unit of a rule string.
//
//	"max_length=20" → Token{Raw: "max_length=20", Name: "max_length", Arg: "20", HasArg: true}
type Token struct {
	Raw    string
	Name   RuleName
	Arg    string
	HasArg bool
}

// Known reports whether the token names a validator in the catalog.
func (t Token) Known() bool {
	_, ok := catalog[t.Name]
	return ok
}

func (t Token) String() string { return t.Raw }

// ParseToken splits a single token on its first '='.
func ParseToken(raw string) Token {
	name, arg, hasArg := strings.Cut(raw, "=")
	return Token{
		Raw:    raw,
		Name:   RuleName(strings.TrimSpace(name)),
		Arg:    arg,
		HasArg: hasArg,
	}
}

// ParseRules splits a pipe-separated rule string into ordered tokens.
// Every position yields a token, including empty and unknown ones, so the
// result lines up one-to-one with the message list.
func ParseRules(spec string) []Token {
	parts := strings.Split(spec, "|")
	tokens := make([]Token, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, ParseToken(p))
	}
	return tokens
}

// ── Rule sets ────────────────────────────────────────────────────────────────

// Rule pairs a token with the message reported when it fails.
type Rule struct {
	Token   Token
	Message string
}

// FieldRules is the ordered rule list of one field.
type FieldRules struct {
	Field string
	Rules []Rule
}

// RuleSet is evaluated in slice order.
type RuleSet []FieldRules

// NewFieldRules parses spec and pairs each token with the message at the
// same position. Messages beyond the token count are ignored.
//
//	fr, err := validation.NewFieldRules("name", "required|max_length=20",
//	    []string{"Name is required", "Name max length 20 letters"})
func NewFieldRules(field, spec string, messages []string) (FieldRules, error) {
	tokens := ParseRules(spec)
	if len(messages) < len(tokens) {
		return FieldRules{}, fmt.Errorf("%w: field %q has %d rules but %d messages",
			ErrRuleSpec, field, len(tokens), len(messages))
	}
	rules := make([]Rule, len(tokens))
	for i, tok := range tokens {
		rules[i] = Rule{Token: tok, Message: messages[i]}
	}
	return FieldRules{Field: field, Rules: rules}, nil
}

// Validate checks a hand-assembled rule set.
func (rs RuleSet) Validate() error {
	for _, fr := range rs {
		if len(fr.Rules) == 0 {
			return fmt.Errorf("%w: field %q has no rules", ErrRuleSpec, fr.Field)
		}
	}
	return nil
}

// Fields returns the field names in evaluation order.
func (rs RuleSet) Fields() []string {
	out := make([]string, len(rs))
	for i, fr := range rs {
		out[i] = fr.Field
	}
	return out
}

// Builder assembles a RuleSet fluently and keeps the first error.
//
//	rules, err := validation.NewRuleSet().
//	    Field("name", "required|max_length=20", "Name is required", "Name max 20").
//	    Field("email", "required|email", "Email is required", "Email is invalid").
//	    Build()
type Builder struct {
	rules RuleSet
	err   error
}

// NewRuleSet starts an empty Builder.
func NewRuleSet() *Builder { return &Builder{} }

// Field appends one field's rules.
func (b *Builder) Field(field, spec string, messages ...string) *Builder {
	if b.err != nil {
		return b
	}
	fr, err := NewFieldRules(field, spec, messages)
	if err != nil {
		b.err = err
		return b
	}
	b.rules = append(b.rules, fr)
	return b
}

// Build returns the assembled RuleSet or the first construction error.
func (b *Builder) Build() (RuleSet, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.rules, nil
}

// MustBuild is like Build but panics on error. Intended for rule sets
// declared at package level.
func (b *Builder) MustBuild() RuleSet {
	rs, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rs
}
