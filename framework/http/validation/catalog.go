package validation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Check is the input handed to every validator.
type Check struct {
	Params Params
	Field  string
	Arg    string
	HasArg bool
}

// Value returns the field's value and whether it is present.
func (c Check) Value() (any, bool) { return c.Params.Lookup(c.Field) }

// ValidatorFunc reports whether a field passes one rule.
type ValidatorFunc func(c Check) bool

// catalog is the fixed rule-name → validator table.
var catalog = map[RuleName]ValidatorFunc{
	Required:       validateRequired,
	MinLength:      validateMinLength,
	MaxLength:      validateMaxLength,
	IsNumeric:      validateIsNumeric,
	Integer:        validateInteger,
	GreatThan:      validateGreatThan,
	LessThan:       validateLessThan,
	Alpha:          matchPattern(alphaPattern),
	AlphaNumeric:   matchPattern(alphaNumericPattern),
	AlphaDash:      matchPattern(alphaDashPattern),
	Email:          validateEmail,
	InArray:        validateInArray,
	IsArray:        validateIsArray,
	FormatDate:     validateFormatDate,
	ItemsIsNumeric: validateItemsIsNumeric,
	GreatThanField: validateGreatThanField,
	LessThanField:  validateLessThanField,
}

// Lookup returns the validator registered for name.
func Lookup(name RuleName) (ValidatorFunc, bool) {
	fn, ok := catalog[name]
	return fn, ok
}

// RuleNames lists the catalog in alphabetical order.
func RuleNames() []RuleName {
	names := make([]RuleName, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ── Presence ─────────────────────────────────────────────────────────────────

func validateRequired(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimLeft(s, " \t\n\r\x00\x0B") != ""
	}
	if n, isColl := collectionLen(v); isColl {
		return n > 0
	}
	return true
}

// ── Length ───────────────────────────────────────────────────────────────────

func validateMinLength(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return true
	}
	return valueLength(v) >= intArg(c.Arg)
}

func validateMaxLength(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return true
	}
	return valueLength(v) <= intArg(c.Arg)
}

// intArg reads the leading integer of a rule argument; junk reads as 0.
func intArg(arg string) int {
	s := strings.TrimSpace(arg)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ── Types ────────────────────────────────────────────────────────────────────

func validateIsNumeric(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	return !ok || isNumeric(v)
}

func validateInteger(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	return !ok || isInteger(v)
}

func validateIsArray(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	return ok && isCollection(v)
}

func validateItemsIsNumeric(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok || !isCollection(v) {
		return false
	}
	allNumeric := true
	eachItem(v, func(item any) bool {
		if !isNumeric(item) {
			allNumeric = false
		}
		return allNumeric
	})
	return allNumeric
}

// ── Bounds ───────────────────────────────────────────────────────────────────

func validateGreatThan(c Check) bool {
	return compareToArg(c, func(cmp int) bool { return cmp > 0 })
}

func validateLessThan(c Check) bool {
	return compareToArg(c, func(cmp int) bool { return cmp < 0 })
}

// compareToArg skips absent and empty values, then applies want to the
// ordering of the value against the rule argument.
func compareToArg(c Check, want func(cmp int) bool) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return true
	}
	if s, isScalar := scalarString(v); isScalar && charLength(s) == 0 {
		return true
	}
	cmp, comparable := compare(v, c.Arg)
	return comparable && want(cmp)
}

func validateGreatThanField(c Check) bool {
	return compareToField(c, func(cmp int) bool { return cmp > 0 })
}

func validateLessThanField(c Check) bool {
	return compareToField(c, func(cmp int) bool { return cmp < 0 })
}

// compareToField compares the field with the field named by the argument.
// The field itself must be present; an absent other field passes.
func compareToField(c Check, want func(cmp int) bool) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return false
	}
	other, ok := c.Params.Lookup(c.Arg)
	if !ok {
		return true
	}
	cmp, comparable := compare(v, other)
	return comparable && want(cmp)
}

// ── Patterns ─────────────────────────────────────────────────────────────────

const latinAccents = "ÀÁÂÃÄÅÇÈÉÊËÌÍÎÏÒÓÔÕÖÙÚÛÜÝàáâãäåçèéêëìíîïðòóôõöùúûüýÿ"

var (
	alphaPattern        = regexp.MustCompile(`(?i)^[a-z` + latinAccents + `]+$`)
	alphaNumericPattern = regexp.MustCompile(`(?i)^[a-z0-9` + latinAccents + `]+$`)
	alphaDashPattern    = regexp.MustCompile(`(?i)^[a-z0-9` + latinAccents + `_-]+$`)
)

func matchPattern(re *regexp.Regexp) ValidatorFunc {
	return func(c Check) bool {
		if c.Field == "" {
			return false
		}
		v, ok := c.Value()
		if !ok {
			return true
		}
		s, isScalar := scalarString(v)
		return isScalar && re.MatchString(s)
	}
}

// emailChecker is safe for concurrent use once built.
var emailChecker = playground.New()

func validateEmail(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return true
	}
	s, isScalar := scalarString(v)
	if !isScalar || s == "" {
		return false
	}
	return emailChecker.Var(s, "email") == nil
}

func validateInArray(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return true
	}
	s, isScalar := scalarString(v)
	if !isScalar {
		return false
	}
	for _, allowed := range strings.Split(c.Arg, ",") {
		if allowed == s {
			return true
		}
	}
	return false
}

func validateFormatDate(c Check) bool {
	if c.Field == "" {
		return false
	}
	v, ok := c.Value()
	if !ok {
		return false
	}
	s, isScalar := scalarString(v)
	return isScalar && matchesDateFormat(s, c.Arg)
}
