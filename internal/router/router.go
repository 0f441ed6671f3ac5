// Package router sets up all HTTP routes and middleware chains for the
// site builder API. Routes split into an auth group and an authenticated
// /api group.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitebuilder/internal/handlers"
	"sitebuilder/internal/middleware"
)

// Options carries the middleware dependencies of the router.
type Options struct {
	Sessions      middleware.SessionGetter
	SecureCookies bool

	// AuthLimiter throttles register and login; AILimiter throttles every
	// endpoint that calls an LLM. Either may be nil.
	AuthLimiter *middleware.RateLimiter
	AILimiter   *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, api *handlers.API, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions))

	csrf := middleware.NewCSRF(opts.SecureCookies)

	// Health check, no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limit(opts.AuthLimiter))
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
		})
		r.With(csrf).Post("/logout", auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(csrf)
		r.Use(middleware.RequireAuth)

		r.Get("/profile", api.GetProfile)
		r.Put("/profile", api.UpdateProfile)

		r.Route("/websites", func(r chi.Router) {
			r.Get("/", api.ListWebsites)
			r.Post("/", api.CreateWebsite)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.GetWebsite)
				r.Put("/", api.UpdateWebsite)
				r.Delete("/", api.DeleteWebsite)
				r.Put("/customization", api.SaveCustomization)

				r.Get("/header-footer", api.GetHeaderFooter)
				r.With(limit(opts.AILimiter)).Post("/header-footer/{slot}/generate", api.GenerateSlot)
				r.With(limit(opts.AILimiter)).Put("/header-footer/{slot}", api.EditSlot)

				r.Get("/preview/{pageRef}", api.Preview)

				r.Route("/pages", func(r chi.Router) {
					r.Get("/", api.ListPages)
					r.Post("/", api.CreatePage)

					r.Route("/{pageID}", func(r chi.Router) {
						r.Get("/", api.GetPage)
						r.Put("/", api.UpdatePage)
						r.Delete("/", api.DeletePage)
						r.Put("/reorder", api.ReorderSections)

						r.With(limit(opts.AILimiter)).Post("/sections", api.AddSection)
						r.With(limit(opts.AILimiter)).Put("/sections/{ref}", api.EditSection)
						r.Delete("/sections/{ref}", api.DeleteSection)
						r.Post("/sections/{ref}/copy", api.CopySection)
					})
				})
			})
		})
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
