package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driftline/ferry/internal/config"
	"github.com/driftline/ferry/internal/engine"
	"github.com/driftline/ferry/internal/event"
	"github.com/driftline/ferry/internal/fsys"
	"github.com/driftline/ferry/internal/plan"
	"github.com/driftline/ferry/internal/stats"
	"github.com/driftline/ferry/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing
func run() int {
	var (
		srcFSName   string
		dstFSName   string
		moveFlag    bool
		yes         bool
		verifyFlag  bool
		quiet       bool
		verbose     bool
		noProgress  bool
		excludes    []string
		logFile     string
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "ferry [flags] <source> <destination>",
		Short: "Copy or move a directory tree, renaming files illegal on the target filesystem",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "ferry %s\n", version)
				return nil
			}

			src := args[0]
			dst := args[1]

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &srcFSName, &dstFSName, &verifyFlag, &quiet)

			// Required flag validated here rather than via MarkFlagRequired so
			// a config-file default can satisfy it.
			if dstFSName == "" {
				return errors.New("--dest-fs is required")
			}
			dstProfile, err := fsys.ParseProfile(dstFSName)
			if err != nil {
				return fmt.Errorf("--dest-fs: %w", err)
			}
			// The source profile is informational: sanitization only depends
			// on the destination, but we validate the name at the boundary.
			srcProfile := fsys.Profile(0)
			if srcFSName != "" {
				srcProfile, err = fsys.ParseProfile(srcFSName)
				if err != nil {
					return fmt.Errorf("--src-fs: %w", err)
				}
			}

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			} else if !quiet {
				logLevel = slog.LevelInfo
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Pass 1: scan the full tree for totals before committing.
			p, err := plan.Scan(src, plan.Options{Exclude: excludes})
			if err != nil {
				return err
			}
			if p.TotalFiles == 0 {
				fmt.Fprintf(os.Stderr, "no files under %s\n", src)
				return nil
			}

			mode := engine.Copy
			if moveFlag {
				mode = engine.Move
			}

			slog.Debug("scan complete",
				"src", src,
				"dst", dst,
				"src_fs", srcProfile.String(),
				"dest_fs", dstProfile.String(),
				"mode", mode.String(),
				"files", p.TotalFiles,
				"bytes", p.TotalBytes,
			)

			fmt.Fprintf(os.Stderr, "%s files, %s  %s -> %s (%s)\n",
				ui.FormatCount(p.TotalFiles), stats.FormatBytes(p.TotalBytes),
				src, dst, dstProfile)
			if !yes && !confirm(os.Stdin, os.Stderr) {
				fmt.Fprintln(os.Stderr, "aborted")
				return nil
			}

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine
			// that writes structured records before forwarding to the presenter.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						attrs := []slog.Attr{
							slog.String("type", ev.Type.String()),
							slog.String("path", ev.Path),
							slog.Int64("size", ev.Size),
						}
						if ev.NewPath != "" {
							attrs = append(attrs, slog.String("new_path", ev.NewPath))
						}
						if ev.Error != nil {
							attrs = append(attrs, slog.String("error", ev.Error.Error()))
						}
						slog.LogAttrs(context.Background(), slog.LevelInfo, "ferry.event", attrs...)
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer:     os.Stdout,
				ErrWriter:  os.Stderr,
				Stats:      collector,
				IsTTY:      ui.IsTTY(os.Stderr.Fd()),
				Quiet:      quiet,
				NoProgress: noProgress,
			})

			// Presenter in the background, engine in the foreground.
			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := engine.Run(ctx, engine.Config{
				Plan:       p,
				SrcRoot:    src,
				DstRoot:    dst,
				DstProfile: dstProfile,
				Mode:       mode,
				Verify:     verifyFlag,
				Stats:      collector,
				Events:     events,
			})
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			if !quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if result.Err != nil {
				if errors.Is(result.Err, engine.ErrCancelled) {
					slog.Warn("transfer cancelled",
						"completed", result.Stats.FilesCopied,
						"total", result.Stats.FilesTotal,
					)
					return &exitError{code: 130}
				}
				slog.Error("transfer failed", "error", result.Err)
				if result.Stats.FilesCopied > 0 {
					return &exitError{code: 1} // partial failure
				}
				return &exitError{code: 2} // total failure
			}

			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().StringVar(&srcFSName, "src-fs", "", "source filesystem (FAT32, exFAT, NTFS, ext4, HFS+)")
	rootCmd.Flags().StringVar(&dstFSName, "dest-fs", "", "destination filesystem (FAT32, exFAT, NTFS, ext4, HFS+)")
	rootCmd.Flags().BoolVarP(&moveFlag, "move", "m", false, "move instead of copy (degrades to copy on a read-only source)")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.Flags().BoolVar(&verifyFlag, "verify", false, "verify checksums after each copy (BLAKE3)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable progress display")
	rootCmd.Flags().StringArrayVar(&excludes, "exclude", nil, "exclude files matching PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	srcFS *string,
	dstFS *string,
	verify *bool,
	quiet *bool,
) {
	if !cmd.Flags().Changed("src-fs") && defaults.SrcFS != nil {
		*srcFS = *defaults.SrcFS
	}
	if !cmd.Flags().Changed("dest-fs") && defaults.DestFS != nil {
		*dstFS = *defaults.DestFS
	}
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		*verify = *defaults.Verify
	}
	if !cmd.Flags().Changed("quiet") && defaults.Quiet != nil {
		*quiet = *defaults.Quiet
	}
}

// confirm reads a y/n answer from in. Anything other than an explicit yes
// declines.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "proceed with transfer? [y/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
