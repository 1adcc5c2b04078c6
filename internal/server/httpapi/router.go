package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/higherpolynomia/backend/internal/logging"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Accounts  *AccountHandler
	Courses   *CourseHandler
	Playlists *PlaylistHandler
	Videos    *VideoHandler
	Doubts    *DoubtHandler
	Verifier  TokenVerifier
}

// NewRouter builds the REST surface. Everything under /api except the
// account endpoints and the public course listing requires a verified
// bearer token.
func NewRouter(h *Handlers, logger logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "HigherPolynomia API is running.")
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.Accounts.Signup)
		r.Post("/verify-otp", h.Accounts.VerifyOTP)
		r.Post("/login", h.Accounts.Login)
		r.Post("/forgot-password", h.Accounts.ForgotPassword)
		r.Post("/reset-password", h.Accounts.ResetPassword)

		r.Get("/courses", h.Courses.List)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(h.Verifier))

			r.Post("/courses", h.Courses.Create)
			r.Get("/courses/{id}", h.Courses.Get)
			r.Put("/courses/{id}", h.Courses.Update)
			r.Delete("/courses/{id}", h.Courses.Delete)
			r.Get("/courses/{courseId}/playlists", h.Playlists.ListByCourse)
			r.Get("/courses/{courseId}/videos", h.Videos.ListByCourse)

			r.Post("/playlists", h.Playlists.Create)
			r.Get("/playlists/{id}", h.Playlists.Get)
			r.Put("/playlists/{id}", h.Playlists.Update)
			r.Delete("/playlists/{id}", h.Playlists.Delete)

			r.Post("/doubt-requests", h.Doubts.Create)

			r.Route("/admin", func(r chi.Router) {
				r.Patch("/courses/{id}/publish", h.Courses.SetStatus)
				r.Post("/upload-video", h.Videos.Upload)
				r.Put("/videos/{id}", h.Videos.Update)
				r.Delete("/videos/{id}", h.Videos.Delete)
				r.Get("/generate-presigned-url", h.Videos.GeneratePresignedURL)
				r.Get("/doubt-requests", h.Doubts.List)
				r.Patch("/doubt-requests/{id}/accept", h.Doubts.Accept)
				r.Patch("/doubt-requests/{id}/reject", h.Doubts.Reject)
			})
		})
	})

	return r
}
