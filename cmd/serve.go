package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dropbox-comments/core/config"
	"dropbox-comments/core/loader"
	"dropbox-comments/core/logger"
	"dropbox-comments/core/middleware/auth"
	"dropbox-comments/core/middleware/rayid"
	"dropbox-comments/core/watch"
	"dropbox-comments/feature/monitor"
	"dropbox-comments/feature/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "dropbox-comments/docs/swagger"
)

// @title Dropbox Comments Sync API
// @version 1.0
// @description Controls the background sync of Dropbox comments into the song ledger.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd runs the background scheduler with its HTTP controls.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync scheduler and its HTTP API",
	Long: `Starts the background scheduler, the /sync HTTP API and a watcher that
reloads credentials when their files change.`,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Shared collaborators
	states, err := a.stateStore(ctx)
	if err != nil {
		return err
	}
	repo, err := a.auditRepository(ctx)
	if err != nil {
		return err
	}

	// 2. Scheduler; clients are built on the first cycle and after each reload
	provider := scheduler.NewClientProvider(func(ctx context.Context) (scheduler.Runner, error) {
		orch, err := a.orchestrator(ctx, states, repo)
		if err != nil {
			return nil, err
		}
		return orch, nil
	})
	sched, err := scheduler.New(provider, a.cfg.Poll.IntervalMinutes, scheduler.WithLogger(logg))
	if err != nil {
		return err
	}

	mon := monitor.New(sched, logg)
	go mon.Run(ctx)

	// 3. Credential watcher
	w, err := watch.New(
		credentialFiles(a.cfg),
		0,
		func(string) { sched.ReloadCredentials() },
		logg,
	)
	if err != nil {
		logg.Warn("Credential watcher disabled", zap.Error(err))
	} else {
		go func() {
			if err := w.Run(ctx); err != nil {
				logg.Warn("Credential watcher stopped", zap.Error(err))
			}
		}()
	}

	// 4. HTTP server
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})
	// Swagger stays public
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(monitor.NewFeature(mon))
	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	sched.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()), zap.Bool("auth", a.cfg.Server.AuthEnabled()))
		serverErr <- app.Listen(a.cfg.Server.Addr())
	}()

	// 5. Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case err := <-serverErr:
		if err != nil {
			logg.Error("Server failed", zap.Error(err))
		}
	}

	logg.Info("Shutting down")
	_ = app.Shutdown()
	if err := sched.Stop(a.cfg.Poll.StopTimeout()); err != nil {
		logg.Warn("Scheduler did not stop cleanly", zap.Error(err))
	}
	return nil
}

// credentialFiles lists the files whose edits trigger a client rebuild.
// The Gmail token is left out: the source rewrites it on every refresh.
func credentialFiles(cfg *config.Config) []string {
	return []string{cfg.Gmail.OAuthCredentials, cfg.Sheet.Credentials}
}
