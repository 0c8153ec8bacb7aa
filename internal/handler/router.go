package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/StrayFurther/TimeTrack/internal/middleware"
	"github.com/StrayFurther/TimeTrack/internal/signing"
)

// RouterConfig carries the wiring for NewRouter.
type RouterConfig struct {
	JWTSecret      string
	Verifier       *signing.Verifier
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter assembles the full route table. Everything except the health
// probe sits behind the request-origin signature check; register and login
// are additionally rate limited, and the account routes require a session
// token.
func NewRouter(h *UserHandler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestOrigin(cfg.Verifier))

		r.Get("/user/exists", h.HandleExists)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Post("/user/register", h.HandleRegister)
			r.Post("/user/login", h.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/user/details", h.HandleDetails)
			r.Put("/user/details", h.HandleUpdateDetails)
			r.Put("/user/details/{id}", h.HandleAdminUpdateDetails)
			r.Get("/user/profile-pic", h.HandleProfilePic)
			r.Post("/user/profile-pic", h.HandleUploadProfilePic)
		})
	})

	return r
}
