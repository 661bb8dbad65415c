package ui

import (
	"github.com/go-chi/chi/v5"

	"github.com/me/heroconsole/internal/session"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	// Login page: authenticated users are sent home.
	r.Group(func(r chi.Router) {
		r.Use(ui.Gate(session.GuestOnly))
		r.Get("/login", ui.HandleLogin)
		r.Post("/login", ui.HandleLoginPost)
	})

	// Protected routes (auth required).
	r.Group(func(r chi.Router) {
		r.Use(ui.Gate(session.Protected))
		r.Use(ui.UnauthorizedGuard)

		r.Get("/", ui.HandleRecords)
		r.Get("/logout", ui.HandleLogout)

		r.Route("/records", func(r chi.Router) {
			r.Get("/export", ui.HandleRecordExport)
			r.Get("/{id}", ui.HandleRecordDetail)
		})
		r.Get("/charts", ui.HandleCharts)

		// Admin routes: other users are sent home.
		r.Group(func(r chi.Router) {
			r.Use(ui.Gate(session.AdminOnly))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", ui.HandleUsers)
				r.Get("/new", ui.HandleUserCreate)
				r.Post("/new", ui.HandleUserCreatePost)
				r.Post("/{id}/delete", ui.HandleUserDelete)
			})
			r.Get("/upload", ui.HandleUpload)
			r.Post("/upload", ui.HandleUploadPost)
			r.Route("/admin", func(r chi.Router) {
				r.Get("/", ui.HandleAdmin)
				r.Post("/mark", ui.HandleAdminMark)
				r.Post("/reset-mark", ui.HandleAdminResetMark)
				r.Post("/recalculate", ui.HandleAdminRecalculate)
			})
		})
	})
}
