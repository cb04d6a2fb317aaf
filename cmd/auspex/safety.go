package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/fileproc"
	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/pkg/analyzer/safety"
	"github.com/auspexlabs/auspex/pkg/models"
)

func safetyCmd() *cli.Command {
	return &cli.Command{
		Name:      "safety",
		Aliases:   []string{"sf"},
		Usage:     "Detect risky coding patterns in Python source",
		ArgsUsage: "[path...]",
		Action:    runSafetyCmd,
	}
}

func runSafetyCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
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

	analyzer := safety.New(safety.WithLogger(newLogger(c)))
	results, errs := analyzeFiles(c.Context, files, store, "safety", "Analyzing safety...",
		func(ctx context.Context, source []byte) (*models.SafetyReport, error) {
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
		title := fmt.Sprintf("Safety Analysis: %s", r.Path)
		if err := formatter.Output(output.SafetyReport(title, r.Report)); err != nil {
			return err
		}
	}

	return reportFailures(formatter, errs)
}
