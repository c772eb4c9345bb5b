package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bucket-browser/core/errs"
	"bucket-browser/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bucket-browser",
	Short: "Object storage browser",
	Long: `Bucket Browser lets an authenticated user walk object-storage buckets as folders,
upload and delete objects, create folders and hand out temporary download links.
It runs as an HTTP service (start) or directly from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Console encoding with the development config keeps CLI errors readable.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err), zap.String("kind", errs.KindOf(err).String()))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error kind to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	switch errs.KindOf(err) {
	case errs.KindInvalidArgument:
		return 2
	case errs.KindNotFound:
		return 3
	case errs.KindAccessDenied:
		return 4
	case errs.KindTransient:
		return 5
	case errs.KindAlreadyExists:
		return 6
	default:
		return 1
	}
}
