package cmd

import (
	"errors"
	"fmt"
	"time"

	"bucket-browser/core/audit"
	"bucket-browser/core/auth"
	"bucket-browser/core/database"
	"bucket-browser/core/loader"
	"bucket-browser/core/logger"
	mwauth "bucket-browser/core/middleware/auth"
	"bucket-browser/core/middleware/rayid"

	"bucket-browser/feature/activity"
	"bucket-browser/feature/browser"
	"bucket-browser/feature/chat"
	"bucket-browser/feature/login"
	"bucket-browser/feature/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "bucket-browser/docs/swagger"
)

// version is overridden at build time with -ldflags "-X bucket-browser/cmd.version=...".
var version = "dev"

// bucketCacheTTL is how long the bucket list is shared between sessions.
const bucketCacheTTL = 15 * time.Second

// @title Bucket Browser API
// @version 1.0
// @description Browse, upload to and download from object-storage buckets.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the bucket browser server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The audit trail is optional; without a database writes go unrecorded.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			if !errors.Is(err, database.ErrDisabled) {
				logg.Warn("Optional database connection failed, audit trail disabled", zap.Error(err))
			}
		} else {
			db = conn
			logg.Info("Connected to audit database", zap.String("driver", cfg.Database.Driver))
		}

		recorder, err := audit.NewRecorder(db)
		if err != nil {
			return err
		}

		gw, err := newGateway(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}
		logg.Info("Storage gateway ready",
			zap.String("provider", cfg.Storage.Provider),
			zap.String("endpoint", cfg.Storage.Endpoint))

		tokens, err := auth.NewService(cfg.Auth)
		if err != nil {
			return err
		}
		if cfg.Server.Debug {
			logg.Warn("Debug mode: authentication is disabled")
		} else if cfg.Auth.PasswordHash == "" {
			logg.Warn("AUTH_PASSWORD_HASH is empty, nobody can sign in (see hash-password)")
		}
		if cfg.Auth.JWTSecret == "" {
			logg.Warn("AUTH_JWT_SECRET is empty, a random secret was generated and tokens will not survive a restart")
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		browserFeature := browser.NewFeature(gw, recorder, logg, browser.Options{
			PresignTTL:        cfg.Storage.PresignTTL(),
			UploadConcurrency: cfg.Storage.UploadConcurrency,
			SessionTTL:        cfg.Server.SessionTTL(),
			Timeout:           cfg.Storage.Timeout(),
			BucketCacheTTL:    bucketCacheTTL,
		})

		mgr := loader.NewManager(logg)
		for _, f := range []loader.Feature{
			pages.NewFeature(RootCmd.Name(), version),
			login.NewFeature(tokens, browserFeature.Service(), logg, cfg.Server.CookieSecure),
			browserFeature,
			chat.NewFeature(),
			activity.NewFeature(recorder, logg),
		} {
			if err := mgr.Register(f); err != nil {
				return err
			}
		}

		// RayID first so everything after it can be traced.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			l.Info("Request",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		guard := mwauth.New(mwauth.Config{Tokens: tokens, Debug: cfg.Server.Debug})
		if err := mgr.LoadAll(app, guard); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(":" + cfg.Server.Port)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
