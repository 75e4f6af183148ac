package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/km-arc/go-formcheck/framework/http/validation"
)

const maxMemory = 32 << 20 // 32 MB

// ErrBodyNotObject is returned by Params for JSON bodies that are not objects.
var ErrBodyNotObject = errors.New("http: JSON body must be an object")

// Request wraps *http.Request with Laravel-style helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Validation input ─────────────────────────────────────────────────────────

// Params collects the request input as validation parameters, like
// Laravel's $request->all().
//
// JSON bodies are decoded with json.Number so integers stay integers. Form
// and query values come back as strings; repeated keys and keys ending in
// "[]" come back as []any. An empty body yields empty Params.
func (req *Request) Params() (validation.Params, error) {
	ct := req.ContentType()

	switch {
	case strings.Contains(ct, "application/json"):
		return req.jsonParams()
	case strings.Contains(ct, "multipart/form-data"):
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("http: parse multipart: %w", err)
		}
	default:
		if err := req.raw.ParseForm(); err != nil {
			return nil, fmt.Errorf("http: parse form: %w", err)
		}
	}
	return formParams(req.raw.Form), nil
}

func (req *Request) jsonParams() (validation.Params, error) {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(req.raw.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return validation.Params{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("http: decode json: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrBodyNotObject
	}
	return validation.Params(obj), nil
}

func formParams(values map[string][]string) validation.Params {
	out := make(validation.Params, len(values))
	for key, vals := range values {
		name, isList := strings.CutSuffix(key, "[]")
		if !isList && len(vals) == 1 {
			out[name] = vals[0]
			continue
		}
		items := make([]any, len(vals))
		for i, v := range vals {
			items[i] = v
		}
		out[name] = items
	}
	return out
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Input returns a single input value (query string OR post body).
func (req *Request) Input(key string, fallback ...string) string {
	_ = req.raw.ParseForm()
	v := req.raw.FormValue(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Has returns true if the key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Input(key) != ""
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.ContentType(), "application/json")
}
