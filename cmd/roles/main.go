// Command roles grants or revokes a role for the account registered with
// an email address.
//
//	roles grant admin alice@example.com
//	roles revoke admin alice@example.com
//
// It works against postgres. The in-memory store is seeded instead with
// the server's --bootstrap-admins flag.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/pollhub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollhub/internal/config"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
)

var errUsage = errors.New("usage: roles [flags] grant|revoke <role> <email>")

func main() {
	config.LoadEnv()

	var db config.Postgres
	fs := pflag.NewFlagSet("roles", pflag.ExitOnError)
	config.DatabaseFlags(fs, &db)
	fs.Parse(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := postgres.Open(ctx, db.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	msg, err := run(ctx, postgres.NewUserRepository(conn), postgres.NewRoleRepository(conn), fs.Args())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(msg)
}

func run(ctx context.Context, users ports.UserRepository, roles ports.RoleRepository, args []string) (string, error) {
	if len(args) != 3 {
		return "", errUsage
	}
	action, role, email := args[0], domain.Role(args[1]), args[2]
	if role != domain.RoleAdmin {
		return "", fmt.Errorf("unknown role %q", role)
	}

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("no user registered with %s; they must sign in once first", email)
	}

	switch action {
	case "grant":
		if err := roles.Grant(ctx, user.ID, role); err != nil {
			return "", fmt.Errorf("failed to grant role: %w", err)
		}
		return fmt.Sprintf("granted %s to %s", role, email), nil
	case "revoke":
		if err := roles.Revoke(ctx, user.ID, role); err != nil {
			return "", fmt.Errorf("failed to revoke role: %w", err)
		}
		return fmt.Sprintf("revoked %s from %s", role, email), nil
	}
	return "", errUsage
}
