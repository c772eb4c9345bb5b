package cmd

import (
	"context"
	"fmt"
	"strings"

	"bucket-browser/core/config"
	"bucket-browser/core/logger"
	"bucket-browser/core/storage"
	"bucket-browser/core/storage/s3"
	"bucket-browser/feature/browser"

	"go.uber.org/zap"
)

// loadRuntime loads the configuration and builds the logger shared by every command.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// newGateway builds the storage gateway for the configured provider.
func newGateway(ctx context.Context, cfg storage.Config) (storage.Gateway, error) {
	switch cfg.Provider {
	case storage.ProviderS3:
		gw, err := s3.NewGateway(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 gateway: %w", err)
		}
		return gw, nil
	default:
		client, err := storage.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		return storage.NewGateway(client), nil
	}
}

// openSession starts a browsing session at bucket and walks prefix one folder at a time.
func openSession(gw storage.Gateway, cfg storage.Config, bucket, prefix string) (*browser.Session, error) {
	session := browser.NewSession(gw,
		browser.WithPresignTTL(cfg.PresignTTL()),
		browser.WithUploadConcurrency(cfg.UploadConcurrency))

	if _, err := session.EnterBucket(bucket); err != nil {
		return nil, err
	}
	for _, segment := range strings.Split(prefix, storage.Delimiter) {
		if segment == "" {
			continue
		}
		if _, err := session.EnterFolder(segment); err != nil {
			return nil, err
		}
	}
	return session, nil
}
