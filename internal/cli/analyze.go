package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/code-metrics/internal/config"
	"github.com/mvp-joe/code-metrics/internal/watcher"
)

var (
	inputFlag  string
	jsonFlag   bool
	formatFlag string
	watchFlag  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Report associated functions and cognitive complexity",
	Long: `Analyze parses a Rust file (or the entry file of a crate directory) and
reports, for every type, how many public and private functions its impl
blocks declare, and a cognitive complexity score for every function.

Scoring: each function starts at 1; an if with an else adds 1; a match with
more than one arm adds 1 plus 1 per guarded arm. Loops add nothing.

Examples:
  # Analyze a single file
  code-metrics analyze src/main.rs

  # Analyze a crate, JSON output
  code-metrics analyze -j ./my-crate

  # Re-run whenever a source file changes
  code-metrics analyze --watch src/lib.rs
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input file or crate directory")
	analyzeCmd.Flags().BoolVarP(&jsonFlag, "json", "j", false, "Shorthand for --format json")
	analyzeCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: table, json or yaml (default from config)")
	analyzeCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for source changes and re-run")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, err := inputPath(args)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if formatFlag != "" {
		format = formatFlag
	}
	if jsonFlag {
		format = config.FormatJSON
	}
	probe := *cfg
	probe.Output.Format = format
	if err := config.Validate(&probe); err != nil {
		return err
	}

	entry, err := resolveEntry(input)
	if err != nil {
		return err
	}

	a, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := a.analyze(ctx, entry)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
		return err
	}

	if !watchFlag {
		return nil
	}
	return watchAndRerun(ctx, cmd, a, entry, format)
}

// inputPath picks the positional argument, falling back to --input.
func inputPath(args []string) (string, error) {
	switch {
	case len(args) == 1 && inputFlag != "" && args[0] != inputFlag:
		return "", errors.New("give the input either as an argument or with --input, not both")
	case len(args) == 1:
		return args[0], nil
	case inputFlag != "":
		return inputFlag, nil
	default:
		return "", errors.New("no input given: pass a .rs file or crate directory")
	}
}

// watchAndRerun re-analyzes entry whenever a source file under its directory
// changes, until ctx is cancelled. Failed re-runs are logged, not fatal.
func watchAndRerun(ctx context.Context, cmd *cobra.Command, a *analyzer, entry, format string) error {
	root := filepath.Dir(entry)
	fw, err := watcher.NewFileWatcher([]string{root}, watcher.Options{
		Extensions: []string{cfg.Source.Extension},
		Debounce:   cfg.DebounceInterval(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		logger.WithField("files", files).Info("source changed, re-running")
		report, err := a.analyze(ctx, entry)
		if err != nil {
			logger.WithError(err).Error("analysis failed")
			return
		}
		if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
			logger.WithError(err).Error("failed to write report")
		}
	})
	if err != nil {
		return err
	}

	logger.WithField("dir", root).Info("watching for changes")
	<-ctx.Done()
	return nil
}
