package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/pollspark/internal/adapters/auth"
	handler "github.com/vncsmyrnk/pollspark/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollspark/internal/adapters/ratelimit"
	repo "github.com/vncsmyrnk/pollspark/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
	"github.com/vncsmyrnk/pollspark/internal/core/services"
)

const testSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Tokens      *auth.JWTIssuer
	PollRepo    ports.PollRepository
	VoteSvc     ports.VoteService
	ResultsSvc  ports.ResultsService
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
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

func setupTestApp(t *testing.T, policy ports.VotePolicy) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx, db))

	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)

	tokens := auth.NewJWTIssuer(testSecret, "pollspark", 15*time.Minute)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	log := zap.NewNop()

	voteSvc := services.NewVoteService(pollRepo, voteRepo, policy)
	resultsSvc := services.NewResultsService(pollRepo)
	authSvc := services.NewAuthService(userRepo, authRepo, tokens, hasher, 7*24*time.Hour)

	router := handler.NewHandler(handler.RouterConfig{
		Logger:         log,
		Tokens:         tokens,
		PollsLimiter:   ratelimit.NewMemoryLimiter(10000, time.Minute),
		VoteLimiter:    ratelimit.NewMemoryLimiter(10000, time.Minute),
		AllowedOrigins: []string{"*"},
	}, handler.Handlers{
		Polls: handler.NewPollHandler(services.NewPollService(pollRepo), log),
		Votes: handler.NewVoteHandler(voteSvc, resultsSvc, log),
		Auth: handler.NewAuthHandler(authSvc, handler.CookieConfig{
			SameSite:        http.SameSiteLaxMode,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		}, log),
		Users: handler.NewUserHandler(services.NewUserService(userRepo, pollRepo), log),
	})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Tokens:      tokens,
		PollRepo:    pollRepo,
		VoteSvc:     voteSvc,
		ResultsSvc:  resultsSvc,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %s", err)
	}
}

// createUserAndToken inserts a user directly and signs an access token for it.
func (app *TestApp) createUserAndToken(t *testing.T) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	short := userID.String()[:8]
	_, err := app.DB.Exec(
		"INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)",
		userID, "user_"+short, fmt.Sprintf("user-%s@example.com", short), "x",
	)
	require.NoError(t, err)

	token, err := app.Tokens.Issue(&domain.User{ID: userID, Username: "user_" + short})
	require.NoError(t, err)
	return userID, token
}

// newJarClient returns a client that keeps cookies between requests.
func (app *TestApp) newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Transport: app.Server.Client().Transport}
}
