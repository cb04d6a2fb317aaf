package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/fileproc"
	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/pkg/analyzer/complexity"
	"github.com/auspexlabs/auspex/pkg/models"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Analyze cyclomatic complexity and hotspots",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "warning",
				Usage: "Complexity threshold for warning severity (default from config)",
			},
			&cli.IntFlag{
				Name:  "critical",
				Usage: "Complexity threshold for critical severity (default from config)",
			},
		},
		Action: runComplexityCmd,
	}
}

func runComplexityCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	warning := cfg.Thresholds.Warning
	if c.IsSet("warning") {
		warning = c.Int("warning")
	}
	critical := cfg.Thresholds.Critical
	if c.IsSet("critical") {
		critical = c.Int("critical")
	}

	analyzer, err := complexity.New(warning, critical,
		complexity.WithLogger(newLogger(c)),
		complexity.WithClustering(cfg.Thresholds.ClusterWindow, cfg.Thresholds.MinClusterSize),
	)
	if err != nil {
		return err
	}

	files, err := fileproc.Discover(getPaths(c), cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	store, err := newResultCache(c, cfg)
	if err != nil {
		return err
	}

	// Thresholds and clustering parameters shape the report, so they are part
	// of the cache key.
	kind := fmt.Sprintf("complexity:%d:%d:%d:%d",
		warning, critical, cfg.Thresholds.ClusterWindow, cfg.Thresholds.MinClusterSize)

	results, errs := analyzeFiles(c.Context, files, store, kind, "Analyzing complexity...",
		func(ctx context.Context, source []byte) (*models.ComplexityReport, error) {
			return analyzer.Analyze(ctx, source)
		})

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(results) == 0 {
		if done, err := singleFailure(formatter, errs); done || err != nil {
			return err
		}
	}

	for _, r := range results {
		title := fmt.Sprintf("Complexity Analysis: %s", r.Path)
		if err := formatter.Output(output.ComplexityReport(title, r.Report)); err != nil {
			return err
		}
	}

	return reportFailures(formatter, errs)
}
