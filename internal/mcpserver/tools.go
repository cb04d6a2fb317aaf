package mcpserver

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/pkg/analyzer/complexity"
	"github.com/auspexlabs/auspex/pkg/analyzer/hotspot"
	"github.com/auspexlabs/auspex/pkg/analyzer/safety"
	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

// AnalyzeInput is the base input for both analyze tools. Exactly one of Path
// or Source should be set; Source wins when both are.
type AnalyzeInput struct {
	Path   string `json:"path,omitempty" jsonschema:"Path to a Python file to analyze."`
	Source string `json:"source,omitempty" jsonschema:"Inline Python source to analyze instead of a file."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// ComplexityInput adds threshold options.
type ComplexityInput struct {
	AnalyzeInput
	WarningThreshold  int `json:"warning_threshold,omitempty" jsonschema:"Complexity threshold for warning severity. Default 10."`
	CriticalThreshold int `json:"critical_threshold,omitempty" jsonschema:"Complexity threshold for critical severity. Default 15."`
}

// SafetyInput carries no extra options beyond the base input.
type SafetyInput struct {
	AnalyzeInput
}

func getSource(input AnalyzeInput) ([]byte, error) {
	if input.Source != "" {
		return []byte(input.Source), nil
	}
	if input.Path == "" {
		return nil, errors.New("either path or source is required")
	}
	return os.ReadFile(input.Path)
}

func getFormat(input AnalyzeInput) output.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatToon
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	if format == output.FormatMarkdown {
		return "```\n" + string(out) + "\n```", nil
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// analysisError collapses analyzer failures to the generic payloads; detail
// stays in the server log.
func analysisError(err error) (*mcp.CallToolResult, any, error) {
	switch {
	case errors.Is(err, pytree.ErrInvalidSyntax):
		return toolError("Invalid syntax")
	case errors.Is(err, models.ErrAnalysis):
		return toolError("Analysis failed")
	default:
		return toolError(err.Error())
	}
}

func handleAnalyzeSafety(ctx context.Context, req *mcp.CallToolRequest, input SafetyInput) (*mcp.CallToolResult, any, error) {
	source, err := getSource(input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	report, err := safety.New().Analyze(ctx, source)
	if err != nil {
		return analysisError(err)
	}
	return toolResult(report, getFormat(input.AnalyzeInput))
}

func handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input ComplexityInput) (*mcp.CallToolResult, any, error) {
	source, err := getSource(input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	warning := input.WarningThreshold
	if warning <= 0 {
		warning = hotspot.DefaultWarning
	}
	critical := input.CriticalThreshold
	if critical <= 0 {
		critical = hotspot.DefaultCritical
	}

	analyzer, err := complexity.New(warning, critical)
	if err != nil {
		return toolError(err.Error())
	}

	report, err := analyzer.Analyze(ctx, source)
	if err != nil {
		return analysisError(err)
	}
	return toolResult(report, getFormat(input.AnalyzeInput))
}
