package main

import (
	"os"

	"github.com/km-arc/go-formcheck/app/controllers"
	"github.com/km-arc/go-formcheck/framework/app"
	"github.com/km-arc/go-formcheck/framework/routing"
)

func main() {
	application := app.New() // loads .env automatically
	application.Boot()

	log := application.Log()
	r := application.Router()

	// ── Browser form: post, redirect, redisplay from the flash ─────────────

	contact := &controllers.ContactController{
		Engine: application.Validator(),
		Forms:  application.Forms(),
		Views:  application.Views(),
		Topics: []string{"sales", "support", "press"},
	}
	r.Get("/contact", contact.Show)
	r.Post("/contact", contact.Submit)

	// ── JSON API (like Route::prefix('api')) ───────────────────────────────

	api := &controllers.ValidateController{
		Engine: application.Validator(),
		Forms:  application.Forms(),
	}
	r.Prefix("/api", func(g *routing.Router) {
		g.Get("/forms", api.Index)
		g.Post("/validate/{form}", api.Validate)
	})

	if err := application.Run(); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
