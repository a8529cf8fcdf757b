package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type RouterConfig struct {
	Logger         *zap.Logger
	Tokens         ports.TokenIssuer
	PollsLimiter   ports.RateLimiter
	VoteLimiter    ports.RateLimiter
	AllowedOrigins []string
	TrustProxy     bool
}

type Handlers struct {
	Polls *PollHandler
	Votes *VoteHandler
	Auth  *AuthHandler
	Users *UserHandler
}

func NewHandler(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(Authenticate(cfg.Tokens))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})

		r.With(RequireAuth).Get("/users/profile", h.Users.GetProfile)
		r.With(RequireAuth).Get("/me", h.Users.GetProfile)

		r.Route("/polls", func(r chi.Router) {
			r.Use(RateLimit(cfg.PollsLimiter, "polls", "Too many requests", cfg.Logger))

			r.Get("/", h.Polls.ListPolls)
			r.Get("/my-votes", h.Polls.MyVotes)
			r.With(RequireAuth).Post("/", h.Polls.CreatePoll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Polls.GetPoll)
				r.With(RequireAuth).Put("/", h.Polls.UpdatePoll)
				r.With(RequireAuth).Delete("/", h.Polls.DeletePoll)

				r.With(RateLimit(cfg.VoteLimiter, "vote", "Too many votes. Please try again later.", cfg.Logger)).
					Post("/vote", h.Votes.Vote)
				r.Get("/results", h.Votes.Results)
				r.Get("/my-vote", h.Votes.MyVote)
			})
		})
	})

	return r
}
