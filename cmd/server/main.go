package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vncsmyrnk/pollhub/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollhub/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/pollhub/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/pollhub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollhub/internal/config"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
	"github.com/vncsmyrnk/pollhub/internal/core/services"
)

type repositories struct {
	polls ports.PollRepository
	votes ports.VoteRepository
	users ports.UserRepository
	roles ports.RoleRepository
	auth  ports.AuthRepository
}

func main() {
	config.LoadEnv()
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepos()

	authService := services.NewAuthService(repos.users, repos.auth, repos.roles, google.NewVerifier(), services.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		GoogleClientID: cfg.GoogleClientID,
	})
	pollService := services.NewPollService(repos.polls)
	voteService := services.NewVoteService(repos.polls, repos.votes)
	userService := services.NewUserService(repos.users)

	handler := http.NewHandler(http.Handlers{
		Poll:  http.NewPollHandler(pollService),
		Vote:  http.NewVoteHandler(voteService),
		Auth:  http.NewAuthHandler(authService, cfg.RedirectURL, cfg.CookieDomain, cfg.CookieSameSite),
		User:  http.NewUserHandler(userService),
		Admin: http.NewAdminHandler(pollService),
	}, authService, cfg.AllowedOrigins)

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: otelhttp.NewHandler(handler, "pollhub")}

	go func() {
		slog.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, func(), error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		repos := repositories{
			polls: store.Polls(),
			votes: store.Votes(),
			users: store.Users(),
			roles: store.Roles(),
			auth:  store.Auth(),
		}
		if err := seedAdmins(ctx, repos.users, repos.roles, cfg.BootstrapAdmins); err != nil {
			return repositories{}, nil, err
		}
		return repos, func() {}, nil
	}

	if len(cfg.BootstrapAdmins) > 0 {
		slog.Warn("bootstrap admins ignored for postgres, use the roles command")
	}

	db, err := postgres.Open(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return repositories{}, nil, err
	}
	return repositories{
		polls: postgres.NewPollRepository(db),
		votes: postgres.NewVoteRepository(db),
		users: postgres.NewUserRepository(db),
		roles: postgres.NewRoleRepository(db),
		auth:  postgres.NewAuthRepository(db),
	}, func() { db.Close() }, nil
}

// seedAdmins registers each email, unless it already exists, and grants
// it the admin role. Signing in with Google later reuses the account.
func seedAdmins(ctx context.Context, users ports.UserRepository, roles ports.RoleRepository, emails []string) error {
	for _, email := range emails {
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			user = &domain.User{Email: email}
			if err := users.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		}
		if err := roles.Grant(ctx, user.ID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("failed to grant admin: %w", err)
		}
		slog.Info("bootstrap admin granted", "email", email)
	}
	return nil
}
