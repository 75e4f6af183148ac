package controllers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/km-arc/go-formcheck/framework/forms"
	gohttp "github.com/km-arc/go-formcheck/framework/http"
	"github.com/km-arc/go-formcheck/framework/http/validation"
	"github.com/km-arc/go-formcheck/framework/routing"
)

// ValidateController exposes the rule sets over JSON. It is stateless: no
// session, no flashing.
type ValidateController struct {
	Engine *validation.Engine
	Forms  *forms.Registry
}

// Index lists the registered form names.
//
//	GET /api/forms
func (c *ValidateController) Index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(c.Forms.Names())
}

// Validate checks the request input against a named form.
//
//	POST /api/validate/{form}
//	200 {"data": {"valid": true}}
//	422 {"message": "...", "errors": {"email_email": "Email is invalid"}}
func (c *ValidateController) Validate(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	name := routing.Param(r, "form")

	rules, err := c.Forms.Rules(name)
	if errors.Is(err, forms.ErrUnknownForm) {
		res.NotFound("Unknown form.")
		return
	}
	if err != nil {
		logError(hlog.FromRequest(r), err)
		res.ServerError()
		return
	}

	params, err := gohttp.NewRequest(r).Params()
	if err != nil {
		res.Error(http.StatusBadRequest, "Request body must be a JSON object or form data.")
		return
	}

	result, err := c.Engine.Run(r.Context(), nil, params, rules)
	switch {
	case errors.Is(err, validation.ErrNotRun):
		res.Error(http.StatusBadRequest, "No input to validate.")
	case err != nil:
		logError(hlog.FromRequest(r), err)
		res.ServerError()
	case result.Fails():
		res.ValidationError(result)
	default:
		res.Success(map[string]any{"valid": true})
	}
}
