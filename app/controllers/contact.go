package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/km-arc/go-formcheck/framework/forms"
	gohttp "github.com/km-arc/go-formcheck/framework/http"
	"github.com/km-arc/go-formcheck/framework/http/validation"
	"github.com/km-arc/go-formcheck/framework/session"
)

const flashStatus = "status"

// ContactController is the classic post/redirect/get form: failures are
// flashed into the session and shown again on the next GET.
type ContactController struct {
	Engine *validation.Engine
	Forms  *forms.Registry
	Views  *gohttp.ViewEngine
	Form   string   // rule set name, default "contact"
	Topics []string // select options
}

type contactPage struct {
	Status string
	Errors []string
	Old    map[string]string
	Topics []string
}

// Show renders the form with any flashed errors and old input.
//
//	GET /contact
func (c *ContactController) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flash, ok := session.FromContext(ctx)
	if !ok {
		c.fail(w, r, session.ErrNoSession)
		return
	}

	old, _, err := validation.FormData(ctx, flash)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	errs, err := flash.Strings(ctx, validation.FlashError)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	status, err := flash.Strings(ctx, flashStatus)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	page := contactPage{
		Errors: errs,
		Old:    oldInput(old),
		Topics: c.Topics,
	}
	if len(status) > 0 {
		page.Status = status[0]
	}
	c.Views.View(w, "contact", page)
}

// Submit validates the posted form and redirects back.
//
//	POST /contact
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := gohttp.NewResponse(w)

	flash, ok := session.FromContext(ctx)
	if !ok {
		c.fail(w, r, session.ErrNoSession)
		return
	}
	rules, err := c.Forms.Rules(c.form())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	params, err := gohttp.NewRequest(r).Params()
	if err != nil {
		res.Error(http.StatusBadRequest, "Malformed form data.")
		return
	}

	result, err := c.Engine.Run(ctx, flash, params, rules)
	switch {
	case errors.Is(err, validation.ErrNotRun):
		if err := flash.Add(ctx, validation.FlashError, "Please fill in the form."); err != nil {
			c.fail(w, r, err)
			return
		}
	case err != nil:
		c.fail(w, r, err)
		return
	case result.Passes():
		// nothing to redisplay after a successful submission
		if _, _, err := validation.FormData(ctx, flash); err != nil {
			c.fail(w, r, err)
			return
		}
		if err := flash.Add(ctx, flashStatus, "Thanks, we will be in touch."); err != nil {
			c.fail(w, r, err)
			return
		}
		hlog.FromRequest(r).Info().Str("form", c.form()).Msg("form accepted")
	default:
		hlog.FromRequest(r).Debug().
			Str("form", c.form()).
			Int("errors", len(result.Errors)).
			Msg("form rejected")
	}
	res.RedirectBack(r, "/contact")
}

func (c *ContactController) form() string {
	if c.Form == "" {
		return "contact"
	}
	return c.Form
}

func (c *ContactController) fail(w http.ResponseWriter, r *http.Request, err error) {
	logError(hlog.FromRequest(r), err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func logError(l *zerolog.Logger, err error) {
	l.Error().Err(err).Msg("request failed")
}

// oldInput flattens flashed params for templates; lists are not redisplayed.
func oldInput(p validation.Params) map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		switch v := v.(type) {
		case []any, map[string]any:
			continue
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
