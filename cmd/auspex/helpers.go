package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/cache"
	"github.com/auspexlabs/auspex/internal/fileproc"
	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/internal/progress"
	"github.com/auspexlabs/auspex/pkg/config"
	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

// fileResult pairs a report with the file it came from.
type fileResult[T any] struct {
	Path   string `json:"path"`
	Report T      `json:"report"`
}

func newResultCache(c *cli.Context, cfg *config.Config) (*cache.Cache, error) {
	enabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, enabled)
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color)
}

// analyzeFiles runs analyze over every file concurrently, consulting the
// result cache keyed by analysis kind, file path, and content hash. Results
// come back sorted by path; per-file failures are collected, not fatal.
func analyzeFiles[T any](
	ctx context.Context,
	files []string,
	store *cache.Cache,
	kind string,
	label string,
	analyze func(ctx context.Context, source []byte) (T, error),
) ([]fileResult[T], *fileproc.ProcessingErrors) {
	tracker := progress.NewTracker(label, len(files))

	results, errs := fileproc.ForEachFileWithContext(ctx, files, func(ctx context.Context, path string) (fileResult[T], error) {
		var zero fileResult[T]

		source, err := os.ReadFile(path)
		if err != nil {
			return zero, err
		}

		key := kind + ":" + path
		hash := cache.HashBytes(source)
		if data, ok := store.Get(key, hash); ok {
			var report T
			if err := json.Unmarshal(data, &report); err == nil {
				return fileResult[T]{Path: path, Report: report}, nil
			}
		}

		report, err := analyze(ctx, source)
		if err != nil {
			return zero, err
		}

		if data, err := json.Marshal(report); err == nil {
			_ = store.Set(key, hash, data)
		}
		return fileResult[T]{Path: path, Report: report}, nil
	}, tracker.Tick)

	tracker.FinishSuccess()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, errs
}

// errorMessage maps analysis errors to their stable user-facing payloads.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, pytree.ErrInvalidSyntax):
		return "Invalid syntax"
	case errors.Is(err, models.ErrAnalysis):
		return "Analysis failed"
	default:
		return err.Error()
	}
}

// reportFailures renders per-file failures after the main output. Structured
// formats get stable error payloads; text gets stderr-style messages.
func reportFailures(formatter *output.Formatter, errs *fileproc.ProcessingErrors) error {
	if errs == nil || !errs.HasErrors() {
		return nil
	}

	switch formatter.Format() {
	case output.FormatText, output.FormatMarkdown:
		for _, pe := range errs.Errors {
			formatter.Error("%s: %s", pe.Path, errorMessage(pe.Err))
		}
		return nil
	default:
		failures := make([]struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		}, len(errs.Errors))
		for i, pe := range errs.Errors {
			failures[i].Path = pe.Path
			failures[i].Error = errorMessage(pe.Err)
		}
		return formatter.Output(failures)
	}
}

// singleFailure outputs the stable error payload when the whole run produced
// nothing but one failed file.
func singleFailure(formatter *output.Formatter, errs *fileproc.ProcessingErrors) (bool, error) {
	if errs == nil || len(errs.Errors) != 1 {
		return false, nil
	}
	switch formatter.Format() {
	case output.FormatText, output.FormatMarkdown:
		return false, nil
	default:
		return true, formatter.Output(models.ErrorResult{Error: errorMessage(errs.Errors[0].Err)})
	}
}
