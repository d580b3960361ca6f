package server

import (
	"context"
	"database/sql"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-jobportal/portal"
)

// APIPrefix is the mount point of every route
const APIPrefix = "/api/v1"

// DefaultCORSOrigin is used when no origin is configured
const DefaultCORSOrigin = "http://localhost:5173"

// Settings is what the server needs from the process configuration
type Settings interface {
	auth.Config
	CORSOrigins() []string
	UseHashidIDs() bool
}

// Deps are the collaborators of the HTTP application
type Deps struct {
	Config Settings
	DB     *bun.DB
	Logger *auth.ZeroLogger
	// AccessLog receives one line per request, nil disables it
	AccessLog io.Writer
	// Tokens overrides the token service built from Config
	Tokens auth.TokenService
}

// App is the assembled HTTP application
type App struct {
	Server router.Server[*fiber.App]
	Fiber  *fiber.App
	Repo   auth.RepositoryManager
	Auther *auth.Auther
	Tokens auth.TokenService
}

// OpenDB opens the sqlite database at dsn through bun
func OpenDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate creates every table
func Migrate(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := auth.Migrate(ctx, tx); err != nil {
			return err
		}
		return portal.Migrate(ctx, tx)
	})
}

// New builds the HTTP application on the go-router fiber adapter
func New(deps Deps) *App {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = auth.NewZeroLogger(os.Stderr, "info")
	}

	origins := cfg.CORSOrigins()
	if len(origins) == 0 {
		origins = []string{DefaultCORSOrigin}
	}

	var app *fiber.App
	srv := router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		app = fiber.New(fiber.Config{
			AppName:      "jobportal",
			ErrorHandler: auth.NewErrorResponder(log.Named("http")),
		})

		app.Use(recover.New())
		if deps.AccessLog != nil {
			app.Use(logger.New(logger.Config{Output: deps.AccessLog}))
		}
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(origins, ","),
			AllowCredentials: true,
		}))

		return app
	})
	srv.Router().WithLogger(log.Named("router"))

	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenServiceFromConfig(cfg, log.Named("tokens"))
	}

	hasher := auth.NewBcryptHasher(cfg.GetPasswordCost())
	repo := auth.NewRepositoryManager(deps.DB)

	provider := auth.NewUserProvider(repo.Users(), hasher).
		WithLogger(log.Named("provider"))

	activity := auth.LoggerActivitySink(log.Named("activity"))

	auther := auth.NewAuthenticator(provider, cfg).
		WithTokenService(tokens).
		WithLogger(log.Named("auth")).
		WithActivitySink(activity)

	routeAuth := auth.NewHTTPAuthenticator(auther, tokens, cfg).
		WithLogger(log.Named("gate"))

	register := auth.NewRegisterUserHandler(repo, hasher).
		WithLogger(log.Named("register")).
		WithActivitySink(activity)
	register.UseHashid = cfg.UseHashidIDs()

	api := srv.Router().Group(APIPrefix)

	auth.RegisterAuthRoutes(
		api.Group("/user"),
		auth.NewAuthController(repo, routeAuth, register,
			auth.WithControllerLogger(log.Named("user")),
		),
	)

	portal.RegisterRoutes(
		api,
		routeAuth.ProtectedRoute(),
		repo.Users(),
		portal.NewController(portal.NewStore(deps.DB), log.Named("portal")),
	)

	return &App{
		Server: srv,
		Fiber:  app,
		Repo:   repo,
		Auther: auther,
		Tokens: tokens,
	}
}
