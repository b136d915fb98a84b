package pkg

import (
	"context"
	"errors"
	"net/http"

	"SchoolCMS/internal/auth"
	"SchoolCMS/internal/cms"
	"SchoolCMS/internal/config"
	"SchoolCMS/internal/console"
	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/notification"
	"SchoolCMS/internal/records"
	"SchoolCMS/internal/ui"
	"SchoolCMS/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// EchoModules needs a config.AppConfig and a *zap.Logger supplied by the caller.
var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewDocumentStore),
	fx.Provide(config.NewRedisClient),
	fx.Provide(records.NewRepository),
	fx.Provide(auth.NewAdminRepository),
	fx.Provide(auth.NewSessionStore),
	fx.Provide(NewTokenConfig),
	fx.Provide(auth.NewService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(cms.NewPublicHandler),
	fx.Provide(NewHub),
	fx.Provide(NewConsoleDeps),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.AppConfig, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupMiddleware(e, cfg.CORSOrigin, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Server running", zap.String("addr", cfg.Addr))
			go func() {
				if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Failed to start the server", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func NewTokenConfig(cfg config.AppConfig) auth.TokenConfig {
	return auth.TokenConfig{Key: []byte(cfg.JWTKey), TTL: cfg.TokenTTL}
}

// NewHub runs the console hub for the lifetime of the app.
func NewHub(lc fx.Lifecycle, cfg config.AppConfig, log *zap.Logger) *ui.Hub {
	hub := ui.NewHub(cfg.CORSOrigin, cfg.ConfirmTimeout, log)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run()
			return nil
		},
		OnStop: func(context.Context) error {
			hub.Shutdown()
			return nil
		},
	})
	return hub
}

func NewConsoleDeps(repo *records.Repository, svc *auth.Service, cfg config.AppConfig, log *zap.Logger) console.Deps {
	return console.Deps{
		Repo:         repo,
		Auth:         svc,
		Log:          log,
		ToastOptions: []notification.Option{notification.WithDisplayDuration(cfg.ToastDuration)},
	}
}

func RegisterRoutes(
	e *echo.Echo,
	authHandler *auth.AuthHandler,
	publicHandler *cms.PublicHandler,
	svc *auth.Service,
	hub *ui.Hub,
	deps console.Deps,
	store docstore.Store,
	log *zap.Logger,
) {
	open := console.Opener(deps)
	e.GET("/ws", func(c echo.Context) error {
		ui.ServeWs(hub, c.Response(), c.Request(), open)
		return nil
	})
	e.GET("/healthz", healthz(store, hub))

	e.POST("/api/login", authHandler.Login)

	public := e.Group("/api/public")
	public.GET("/notices", publicHandler.ListNotices)
	public.GET("/achievements", publicHandler.ListAchievements)
	public.GET("/principal-message", publicHandler.GetPrincipalMessage)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware(svc, log))
	protected.GET("/profile", authHandler.Profile)
	protected.POST("/logout", authHandler.Logout)
}

func healthz(store docstore.Store, hub *ui.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "document store unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"consoles": hub.Count(),
		})
	}
}
