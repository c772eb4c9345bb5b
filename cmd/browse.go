package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"bucket-browser/core/storage"
	"bucket-browser/feature/browser"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// bucketsCmd represents the buckets command
var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List accessible buckets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		gw, err := newGateway(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Storage.Timeout())
		defer cancel()

		names, err := browser.NewSession(gw).ListBuckets(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls <bucket> [prefix]",
	Short: "List folders and files under a prefix",
	Long:  `Lists the immediate children of a prefix. Files are shown with a temporary download link.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		gw, err := newGateway(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}

		prefix := ""
		if len(args) == 2 {
			prefix = args[1]
		}
		session, err := openSession(gw, cfg.Storage, args[0], prefix)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Storage.Timeout())
		defer cancel()

		listing, err := session.Listing(ctx)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(listing)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%s\n", session.State().DisplayPath)
		for _, f := range listing.Folders {
			fmt.Fprintf(w, "DIR\t%s/\t\t\n", f.Name)
		}
		for _, f := range listing.Files {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.SizeHuman, f.Name, humanize.Time(f.LastModified), f.DownloadURL)
		}
		return w.Flush()
	},
}

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <bucket> <prefix> <file>...",
	Short: "Upload local files into a folder",
	Long:  `Uploads each file under the prefix using its base name. A failed file does not stop the others.`,
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadRuntime()
		if err != nil {
			return err
		}
		gw, err := newGateway(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}
		session, err := openSession(gw, cfg.Storage, args[0], args[1])
		if err != nil {
			return err
		}

		var files []browser.UploadFile
		for _, path := range args[2:] {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
			files = append(files, browser.UploadFile{Name: filepath.Base(path), Body: f, Size: info.Size()})
		}

		start := time.Now()
		outcomes, err := session.Upload(cmd.Context(), files)
		if err != nil {
			return err
		}

		failed := 0
		for _, o := range outcomes {
			if o.OK() {
				logg.Info("Uploaded", zap.String("key", o.Key))
				continue
			}
			failed++
			logg.Error("Upload failed", zap.String("key", o.Key), zap.Error(o.Err))
		}
		logg.Info("Upload finished",
			zap.Int("files", len(outcomes)),
			zap.Int("failed", failed),
			zap.Duration("duration", time.Since(start)))

		if failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(outcomes))
		}
		return nil
	},
}

// mkdirCmd represents the mkdir command
var mkdirCmd = &cobra.Command{
	Use:   "mkdir <bucket> <prefix> <name>",
	Short: "Create a folder marker",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd, args, func(ctx context.Context, s *browser.Session, name string) (browser.ObjectRef, error) {
			return s.CreateFolder(ctx, name)
		})
	},
}

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm <bucket> <prefix> <name>",
	Short: "Delete an object",
	Long:  `Deletes an object under the prefix. Deleting an object that does not exist succeeds.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd, args, func(ctx context.Context, s *browser.Session, name string) (browser.ObjectRef, error) {
			return s.DeleteObject(ctx, name)
		})
	},
}

func runWrite(cmd *cobra.Command, args []string, op func(context.Context, *browser.Session, string) (browser.ObjectRef, error)) error {
	cfg, logg, err := loadRuntime()
	if err != nil {
		return err
	}
	gw, err := newGateway(cmd.Context(), cfg.Storage)
	if err != nil {
		return err
	}
	session, err := openSession(gw, cfg.Storage, args[0], args[1])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Storage.Timeout())
	defer cancel()

	ref, err := op(ctx, session, args[2])
	if err != nil {
		return err
	}
	logg.Info("Done", zap.String("command", cmd.Name()), zap.String("bucket", ref.Bucket), zap.String("key", ref.Key))
	return nil
}

// urlCmd represents the url command
var urlCmd = &cobra.Command{
	Use:   "url <bucket> <key>",
	Short: "Print a temporary download link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		gw, err := newGateway(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}

		ttl := cfg.Storage.PresignTTL()
		if secs, _ := cmd.Flags().GetInt("ttl"); secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Storage.Timeout())
		defer cancel()

		u, err := gw.PresignGet(ctx, args[0], args[1], ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	lsCmd.Flags().Bool("json", false, "Output the listing as JSON")
	urlCmd.Flags().Int("ttl", int(storage.DefaultPresignTTL/time.Second), "Link lifetime in seconds")

	RootCmd.AddCommand(bucketsCmd, lsCmd, putCmd, mkdirCmd, rmCmd, urlCmd)
}
