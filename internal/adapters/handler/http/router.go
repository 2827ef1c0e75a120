package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

type Handlers struct {
	Poll  *PollHandler
	Vote  *VoteHandler
	Auth  *AuthHandler
	User  *UserHandler
	Admin *AdminHandler
}

// NewHandler builds the API router. Cross-origin requests are only
// allowed when allowedOrigins is not empty.
func NewHandler(h Handlers, identity ports.IdentityProvider, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	})

	r.Route("/oauth", func(r chi.Router) {
		r.Post("/callback", h.Auth.GoogleCallback)
		r.Post("/refresh", h.Auth.Refresh)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(identity))

		r.Get("/me", h.User.GetMe)

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Poll.ListPolls)
			r.Post("/", h.Poll.CreatePoll)
			r.Get("/mine", h.Poll.ListMyPolls)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Poll.GetPoll)
				r.Put("/", h.Poll.UpdatePoll)
				r.Delete("/", h.Poll.DeletePoll)
				r.Post("/votes", h.Vote.VoteOnPoll)
				r.Get("/results", h.Vote.GetResults)
				r.Get("/my-vote", h.Vote.GetMyVote)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/polls", h.Admin.ListPolls)
			r.Delete("/polls/{id}", h.Admin.DeletePoll)
		})
	})

	return r
}
