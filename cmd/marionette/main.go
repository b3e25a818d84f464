package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	setupLogging()

	rootCmd := &cobra.Command{
		Use:   "marionette",
		Short: "Compile declarative resource manifests into dependency catalogs",
	}
	rootCmd.AddCommand(newCompileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.RFC3339,
		}),
	))
}

func newCompileCmd() *cobra.Command {
	var (
		format    string
		watch     bool
		printHash bool
	)

	cmd := &cobra.Command{
		Use:   "compile <manifest.pp>",
		Short: "Compile a manifest into a validated catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if err := compileOnce(cmd, path, format, printHash); err != nil {
				if !watch {
					return err
				}
				// In watch mode a broken manifest is a state to recover
				// from, not a reason to exit.
				slog.Error("compilation failed", "file", path, "error", err)
			}

			if !watch {
				return nil
			}
			return watchAndRecompile(cmd, path, format, printHash)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "plan",
		"Output format: plan, dot, json, table, manifest")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Recompile whenever the manifest file changes")
	cmd.Flags().BoolVar(&printHash, "hash", false,
		"Print the canonical catalog hash after the output")

	return cmd
}

func compileOnce(cmd *cobra.Command, path, format string, printHash bool) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	c, err := compileSource(string(source))
	if err != nil {
		return err
	}

	out, err := render(c, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if printHash {
		hash, err := c.Hash()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# catalog %s\n", hash)
	}
	return nil
}

// watchAndRecompile recompiles the manifest on every write. Editors that
// replace the file on save remove the watched inode, so the watch is on the
// file's directory.
func watchAndRecompile(cmd *cobra.Command, path, format string, printHash bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := "."
	if i := lastSeparator(path); i >= 0 {
		dir = path[:i+1]
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	slog.Info("watching manifest", "file", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Info("manifest changed, recompiling", "file", path)
			if err := compileOnce(cmd, path, format, printHash); err != nil {
				slog.Error("compilation failed", "file", path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}

func lastSeparator(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == os.PathSeparator {
			return i
		}
	}
	return -1
}
