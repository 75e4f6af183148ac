package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type dateToken struct {
	layout  string // Go reference-time element
	pattern string // what the element may look like in a value
	frac    bool   // fractional seconds, which Go only reads after a '.'
}

// dateTokens maps PHP date() format characters to Go reference-time layouts.
// Characters without a Go equivalent (N, S, w, z, W, t, L, o, B, G, I, U, e...)
// are deliberately absent: a format using them cannot round-trip.
var dateTokens = map[byte]dateToken{
	'd': {layout: "02", pattern: `\d{2}`},
	'D': {layout: "Mon", pattern: `[A-Za-z]{3}`},
	'j': {layout: "2", pattern: `\d{1,2}`},
	'l': {layout: "Monday", pattern: `[A-Za-z]+`},
	'm': {layout: "01", pattern: `\d{2}`},
	'M': {layout: "Jan", pattern: `[A-Za-z]{3}`},
	'n': {layout: "1", pattern: `\d{1,2}`},
	'F': {layout: "January", pattern: `[A-Za-z]+`},
	'Y': {layout: "2006", pattern: `\d{4}`},
	'y': {layout: "06", pattern: `\d{2}`},
	'H': {layout: "15", pattern: `\d{2}`},
	'h': {layout: "03", pattern: `\d{2}`},
	'g': {layout: "3", pattern: `\d{1,2}`},
	'i': {layout: "04", pattern: `\d{2}`},
	's': {layout: "05", pattern: `\d{2}`},
	'A': {layout: "PM", pattern: `AM|PM`},
	'a': {layout: "pm", pattern: `am|pm`},
	'T': {layout: "MST", pattern: `[A-Za-z]{3,5}|[+-]\d{2}(?::?\d{2})?`},
	'P': {layout: "-07:00", pattern: `[+-]\d{2}:\d{2}`},
	'O': {layout: "-0700", pattern: `[+-]\d{4}`},
	'u': {layout: "000000", pattern: `\d{6}`, frac: true},
	'v': {layout: "000", pattern: `\d{3}`, frac: true},
}

// dateComposites expand to plain format characters before compiling.
var dateComposites = map[byte]string{
	'c': `Y-m-d\TH:i:sP`,
	'r': `D, d M Y H:i:s O`,
}

// dateFormat is a compiled PHP date() format. Literal text is matched by re
// and never reaches the Go layout, so a literal such as "_" or an escaped
// "Jan" cannot be read back as a layout element.
type dateFormat struct {
	re     *regexp.Regexp
	tokens []dateToken
}

// compileDateFormat converts a PHP date() format string.
//
//	compileDateFormat("Y-m-d H:i")  // layout "2006 01 02 15 04"
//	compileDateFormat(`d\/m\/Y`)    // layout "02 01 2006"
func compileDateFormat(format string) (*dateFormat, error) {
	if format == "" {
		return nil, fmt.Errorf("validation: empty date format")
	}
	format, err := expandDateComposites(format)
	if err != nil {
		return nil, err
	}

	f := &dateFormat{}
	var pattern strings.Builder
	pattern.WriteByte('^')
	for i := 0; i < len(format); i++ {
		ch := format[i]

		if ch == '\\' {
			i++
			pattern.WriteString(regexp.QuoteMeta(format[i : i+1]))
			continue
		}

		if tok, ok := dateTokens[ch]; ok {
			pattern.WriteString("(" + tok.pattern + ")")
			f.tokens = append(f.tokens, tok)
			continue
		}
		if isASCIILetter(ch) {
			return nil, fmt.Errorf("validation: unsupported date format character %q", ch)
		}
		pattern.WriteString(regexp.QuoteMeta(format[i : i+1]))
	}
	pattern.WriteByte('$')

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("validation: date format %q: %w", format, err)
	}
	f.re = re
	return f, nil
}

// expandDateComposites replaces c and r with their component characters and
// checks that every escape has a character to escape.
func expandDateComposites(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch == '\\' {
			if i+1 >= len(format) {
				return "", fmt.Errorf("validation: dangling escape in date format %q", format)
			}
			b.WriteString(format[i : i+2])
			i++
			continue
		}
		if expanded, ok := dateComposites[ch]; ok {
			b.WriteString(expanded)
			continue
		}
		b.WriteByte(ch)
	}
	return b.String(), nil
}

// layout joins the Go elements with single spaces.
func (f *dateFormat) layout() string {
	return f.join(func(i int) string { return f.tokens[i].layout })
}

func (f *dateFormat) join(part func(i int) string) string {
	var b strings.Builder
	for i, tok := range f.tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		if tok.frac {
			b.WriteByte('.')
		}
		b.WriteString(part(i))
	}
	return b.String()
}

// matches reports whether value is exactly a date in this format. The literal
// text is checked by the pattern; the captured elements are then parsed and
// re-formatted together, so impossible calendar dates such as 2023-02-30 and
// weekday names that disagree with the date fail.
func (f *dateFormat) matches(value string) bool {
	m := f.re.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	if len(f.tokens) == 0 {
		return true
	}

	layout := f.layout()
	joined := f.join(func(i int) string { return m[i+1] })
	t, err := time.ParseInLocation(layout, joined, time.UTC)
	if err != nil {
		return false
	}
	return t.Format(layout) == joined
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func matchesDateFormat(value, format string) bool {
	f, err := compileDateFormat(format)
	if err != nil {
		return false
	}
	return f.matches(value)
}
