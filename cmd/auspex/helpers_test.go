package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/auspexlabs/auspex/internal/cache"
	"github.com/auspexlabs/auspex/internal/testutil"
	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"invalid syntax", fmt.Errorf("parse: %w", pytree.ErrInvalidSyntax), "Invalid syntax"},
		{"analysis failure", fmt.Errorf("detector: %w", models.ErrAnalysis), "Analysis failed"},
		{"other", errors.New("permission denied"), "permission denied"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorMessage(tc.err); got != tc.want {
				t.Errorf("errorMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAnalyzeFiles(t *testing.T) {
	root := testutil.TempDir(t)
	a := filepath.Join(root, "a.py")
	b := filepath.Join(root, "b.py")
	testutil.WriteFile(t, a, "x = 1\n")
	testutil.WriteFile(t, b, "y = 2\n")

	store, err := cache.New("", 0, false)
	if err != nil {
		t.Fatalf("cache.New() error: %v", err)
	}

	results, errs := analyzeFiles(context.Background(), []string{b, a}, store, "lines", "Analyzing...",
		func(ctx context.Context, source []byte) (int, error) {
			return len(source), nil
		})

	if errs != nil {
		t.Fatalf("errs = %v, want nil", errs)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	// Results are sorted by path regardless of input or completion order.
	if results[0].Path != a || results[1].Path != b {
		t.Errorf("results out of order: %s, %s", results[0].Path, results[1].Path)
	}
	if results[0].Report != 6 {
		t.Errorf("results[0].Report = %d, want 6", results[0].Report)
	}
}

func TestAnalyzeFilesCollectsErrors(t *testing.T) {
	root := testutil.TempDir(t)
	good := filepath.Join(root, "good.py")
	bad := filepath.Join(root, "bad.py")
	testutil.WriteFile(t, good, "x = 1\n")
	testutil.WriteFile(t, bad, "def broken(:\n")

	store, err := cache.New("", 0, false)
	if err != nil {
		t.Fatalf("cache.New() error: %v", err)
	}

	results, errs := analyzeFiles(context.Background(), []string{good, bad}, store, "check", "Analyzing...",
		func(ctx context.Context, source []byte) (bool, error) {
			if len(source) > 7 {
				return false, pytree.ErrInvalidSyntax
			}
			return true, nil
		})

	if len(results) != 1 || results[0].Path != good {
		t.Errorf("results = %v, want only the good file", results)
	}
	if errs == nil || len(errs.Errors) != 1 {
		t.Fatalf("errs = %v, want one error", errs)
	}
	if errs.Errors[0].Path != bad {
		t.Errorf("failed path = %s, want %s", errs.Errors[0].Path, bad)
	}
}

func TestAnalyzeFilesMissingFile(t *testing.T) {
	store, err := cache.New("", 0, false)
	if err != nil {
		t.Fatalf("cache.New() error: %v", err)
	}

	results, errs := analyzeFiles(context.Background(), []string{"/nonexistent.py"}, store, "check", "Analyzing...",
		func(ctx context.Context, source []byte) (bool, error) {
			return true, nil
		})

	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
	if errs == nil || !errs.HasErrors() {
		t.Error("unreadable file should be recorded as an error")
	}
}

func TestAnalyzeFilesUsesCache(t *testing.T) {
	root := testutil.TempDir(t)
	path := filepath.Join(root, "a.py")
	testutil.WriteFile(t, path, "x = 1\n")

	store, err := cache.New(filepath.Join(root, "cache"), 24, true)
	if err != nil {
		t.Fatalf("cache.New() error: %v", err)
	}

	calls := 0
	analyze := func(ctx context.Context, source []byte) (string, error) {
		calls++
		return "report", nil
	}

	for i := 0; i < 2; i++ {
		results, errs := analyzeFiles(context.Background(), []string{path}, store, "kind", "Analyzing...", analyze)
		if errs != nil {
			t.Fatalf("run %d: errs = %v", i, errs)
		}
		if len(results) != 1 || results[0].Report != "report" {
			t.Fatalf("run %d: results = %v", i, results)
		}
	}

	if calls != 1 {
		t.Errorf("analyze ran %d times, want 1 (second run served from cache)", calls)
	}
}
