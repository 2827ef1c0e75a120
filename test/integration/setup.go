// Package integration exercises the HTTP API against a real Postgres
// started with testcontainers. The tests are skipped with -short.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/vncsmyrnk/pollhub/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/pollhub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollhub/internal/core/domain"
	"github.com/vncsmyrnk/pollhub/internal/core/ports"
	"github.com/vncsmyrnk/pollhub/internal/core/services"
)

const testSecret = "test-secret"

type TestApp struct {
	DB         *sql.DB
	Server     *httptest.Server
	Client     *http.Client
	SummarySvc ports.SummaryService
}

// MockVerifier accepts "valid_token" as a Google credential for email.
type MockVerifier struct {
	email string
}

func (v *MockVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if token == "valid_token" {
		return &ports.TokenPayload{Email: v.email, Name: "Test User"}, nil
	}
	return nil, fmt.Errorf("token rejected")
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := dbContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db, err := repo.Open(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(db))

	pollRepo := repo.NewPollRepository(db)
	userRepo := repo.NewUserRepository(db)

	authSvc := services.NewAuthService(userRepo, repo.NewAuthRepository(db), repo.NewRoleRepository(db), &MockVerifier{email: "test@example.com"}, services.AuthConfig{
		JWTSecret: testSecret,
	})
	pollSvc := services.NewPollService(pollRepo)

	router := handler.NewHandler(handler.Handlers{
		Poll:  handler.NewPollHandler(pollSvc),
		Vote:  handler.NewVoteHandler(services.NewVoteService(pollRepo, repo.NewVoteRepository(db))),
		Auth:  handler.NewAuthHandler(authSvc, "https://example.com/redirect", "", http.SameSiteLaxMode),
		User:  handler.NewUserHandler(services.NewUserService(userRepo)),
		Admin: handler.NewAdminHandler(pollSvc),
	}, authSvc, nil)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestApp{
		DB:         db,
		Server:     server,
		Client:     server.Client(),
		SummarySvc: services.NewSummaryService(pollRepo, repo.NewPollResultRepository(db)),
	}
}

// createUserAndToken inserts a user directly and signs an access token
// for it the way the auth service does.
func (app *TestApp) createUserAndToken(t *testing.T, roles ...domain.Role) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	_, err := app.DB.Exec("INSERT INTO users (id, email, name) VALUES ($1, $2, $3)", userID, email, "User")
	require.NoError(t, err)

	for _, role := range roles {
		_, err := app.DB.Exec("INSERT INTO user_roles (user_id, role) VALUES ($1, $2)", userID, string(role))
		require.NoError(t, err)
	}

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return userID, signed
}

func (app *TestApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, app.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (app *TestApp) createPoll(t *testing.T, token, question string, options ...string) domain.Poll {
	t.Helper()
	resp := app.request(t, http.MethodPost, "/api/polls", token, map[string]any{
		"question": question,
		"options":  options,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[domain.Poll](t, resp)
}
