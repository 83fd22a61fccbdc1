package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	auth "github.com/InlamningsUppgift-Moln-DistSystem/AuthService"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	bunDB  *bun.DB
	engine *auth.CredentialEngine
	tokens auth.TokenService
	srv    router.Server[*fiber.App]
}

func main() {
	app := &App{}
	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithCredentials(app); err != nil {
		log.Fatal(err)
	}

	WithServer(app)

	RegisterRoutes(app)

	app.srv.Serve(getenv("LISTEN_ADDR", ":8572"))

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, getenv("DATABASE_DSN", "file:auth.db?cache=shared"))
	if err != nil {
		return err
	}

	app.bunDB = bun.NewDB(db, sqlitedialect.New())

	_, err = app.bunDB.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(ctx)

	return err
}

func WithCredentials(app *App) error {
	tokens, err := auth.NewTokenService(auth.SigningConfig{
		SigningKey:      os.Getenv("JWT_SIGNING_KEY"),
		Issuer:          os.Getenv("JWT_ISSUER"),
		Audience:        splitNonEmpty(os.Getenv("JWT_AUDIENCE")),
		TokenExpiration: getenvInt("JWT_EXPIRATION_MINUTES", auth.DefaultTokenExpiration),
	}, nil)
	if err != nil {
		return err
	}
	app.tokens = tokens

	client := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_ADDR", "localhost:6379"),
	})

	app.engine = auth.NewCredentialEngine(
		auth.NewUsersStore(app.bunDB),
		auth.NewQueueDispatcher(client),
	).WithConfirmationBaseURL(getenv("CONFIRMATION_BASE_URL", auth.DefaultConfirmationBaseURL))

	return nil
}

func WithServer(app *App) {
	app.srv = router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			StrictRouting:     false,
			PassLocalsToViews: false,
		}))
	})
}

func RegisterRoutes(app *App) {
	controller := auth.NewHTTPController(app.engine, app.tokens)
	controller.RegisterRoutes(app.srv.Router().Group("/auth"))

	protected := auth.ProtectedRoute(app.tokens, nil)

	app.srv.Router().Get("/me", func(ctx router.Context) error {
		claims, err := auth.ClaimsFromContext(ctx)
		if err != nil {
			return auth.DefaultAuthErrorHandler(ctx, err)
		}

		return ctx.JSON(router.StatusOK, map[string]string{
			"id":       claims.Subject(),
			"username": claims.Username(),
			"email":    claims.Email(),
		})
	}, protected)
}

func WaitExitSignal() os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return <-sigs
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
