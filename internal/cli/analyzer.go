package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/code-metrics/internal/config"
	"github.com/mvp-joe/code-metrics/internal/crate"
	"github.com/mvp-joe/code-metrics/internal/metrics"
	"github.com/mvp-joe/code-metrics/internal/parsers"
)

// analyzer runs both metric visitors over one entry file.
type analyzer struct {
	parser  *parsers.RustParser
	counter *metrics.AssociatedMemberCounter
	scorer  *metrics.ComplexityScorer
	logger  *logrus.Logger
}

func newAnalyzer(cfg *config.Config, logger *logrus.Logger) (*analyzer, error) {
	parser := parsers.NewRustParser()

	counter, err := metrics.NewAssociatedMemberCounter(parser, cfg.ToCounterOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	return &analyzer{
		parser:  parser,
		counter: counter,
		scorer:  metrics.NewComplexityScorer(logger),
		logger:  logger,
	}, nil
}

// resolveEntry maps the user's input to a source file. Directories are
// treated as crates and resolved through their Cargo.toml.
func resolveEntry(input string) (string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("failed to open input: %w", err)
	}
	if !info.IsDir() {
		return input, nil
	}
	return crate.EntryPoint(input)
}

// analyze parses entry once and combines the member and complexity tables.
// Modules referenced from entry resolve against its directory.
func (a *analyzer) analyze(ctx context.Context, entry string) (metrics.Report, error) {
	tree, err := a.parser.ParseFile(ctx, entry)
	if err != nil {
		return metrics.Report{}, err
	}
	defer tree.Close()

	baseDir := filepath.Dir(entry)
	a.logger.WithFields(logrus.Fields{
		"entry": entry,
		"base":  baseDir,
	}).Debug("analyzing")

	members, err := a.counter.Count(ctx, tree, baseDir)
	if err != nil {
		return metrics.Report{}, err
	}

	complexity := a.scorer.Score(tree)

	return metrics.Combine(complexity, members), nil
}
