package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoSession is returned by handlers that need a flash bag when the
// session middleware is not installed.
var ErrNoSession = errors.New("session: no session in request context")

// Options configures the session cookie.
type Options struct {
	CookieName string        // default: "formcheck_session"
	Lifetime   time.Duration // cookie Max-Age; 0 = browser session
	Secure     bool
	Path       string // default: "/"
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = "formcheck_session"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// Middleware attaches a *Flash for the caller's session to every request,
// issuing a new session cookie when none (or a malformed one) is sent.
//
//	r.Middleware(session.Middleware(store, session.Options{}, log))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    flash, _ := session.FromContext(r.Context())
//	}
func Middleware(store Store, opts Options, log zerolog.Logger) func(http.Handler) http.Handler {
	opts = opts.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(opts.CookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				log.Debug().Str("session", id).Msg("session started")
			}

			cookie := &http.Cookie{
				Name:     opts.CookieName,
				Value:    id,
				Path:     opts.Path,
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			}
			if opts.Lifetime > 0 {
				cookie.MaxAge = int(opts.Lifetime / time.Second)
			}
			http.SetCookie(w, cookie)

			ctx := WithFlash(r.Context(), NewFlash(store, id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
