package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/auspexlabs/auspex/pkg/models"
)

// SafetyReport wraps a safety report as a Renderable. Structured formats
// receive the report verbatim; text and markdown get tabular views.
func SafetyReport(title string, report *models.SafetyReport) *Report {
	sections := []Renderable{
		findingsTable(report.Findings),
		safetyMetricsTable(report.Metrics),
	}
	if len(report.Recommendations) > 0 {
		sections = append(sections, recommendationsSection(report.Recommendations))
	}
	return &Report{
		Title:    title,
		Sections: sections,
		Data:     report,
	}
}

func findingsTable(findings []models.Finding) *Table {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			f.Pattern.Name,
			string(f.Pattern.RiskLevel),
			string(f.Pattern.Category),
			joinLines(f.Locations),
		})
	}
	return NewTable(
		"Risk Findings",
		[]string{"Pattern", "Risk", "Category", "Lines"},
		rows,
		[]string{"Total", strconv.Itoa(len(findings)), "", ""},
		findings,
	)
}

func safetyMetricsTable(m models.SafetyMetrics) *Table {
	rows := [][]string{
		{"Cyclomatic complexity", strconv.Itoa(m.CyclomaticComplexity)},
		{"Functions", strconv.Itoa(m.NumberOfFunctions)},
		{"Classes", strconv.Itoa(m.NumberOfClasses)},
		{"Lines of code", strconv.Itoa(m.LinesOfCode)},
		{"Comment ratio", fmt.Sprintf("%.2f", m.CommentRatio)},
	}
	return NewTable("Code Metrics", []string{"Metric", "Value"}, rows, nil, m)
}

func recommendationsSection(recs []models.Recommendation) *Section {
	subs := make([]Section, 0, len(recs))
	for _, r := range recs {
		subs = append(subs, Section{
			Title:   fmt.Sprintf("%s [%s]", r.Title, r.Priority),
			Content: r.Description + "\n" + r.Remediation,
		})
	}
	return &Section{Title: "Recommendations", Sections: subs, Data: recs}
}

// ComplexityReport wraps a complexity report as a Renderable.
func ComplexityReport(title string, report *models.ComplexityReport) *Report {
	sections := []Renderable{
		complexityMetricsTable(report.Metrics),
		hotspotsTable(report.Hotspots),
	}
	if len(report.DecisionPointSummary.Clusters) > 0 {
		sections = append(sections, clustersTable(report.DecisionPointSummary.Clusters))
	}
	if len(report.Recommendations) > 0 {
		sections = append(sections, complexityRecommendationsSection(report.Recommendations))
	}
	return &Report{
		Title:    title,
		Sections: sections,
		Data:     report,
	}
}

func complexityMetricsTable(m models.ComplexityMetrics) *Table {
	rows := [][]string{
		{"Overall complexity", strconv.Itoa(m.OverallComplexity)},
		{"Average function complexity", fmt.Sprintf("%.2f", m.AverageFunctionComplexity)},
		{"Max function complexity", strconv.Itoa(m.MaxComplexity)},
		{"Decision points", strconv.Itoa(m.TotalDecisionPoints)},
		{"Unique decision types", strconv.Itoa(m.UniqueDecisionTypes)},
	}
	return NewTable("Complexity Metrics", []string{"Metric", "Value"}, rows, nil, m)
}

func hotspotsTable(hotspots []models.Hotspot) *Table {
	rows := make([][]string, 0, len(hotspots))
	for _, h := range hotspots {
		rows = append(rows, []string{
			h.Name,
			string(h.Kind),
			strconv.Itoa(h.Complexity),
			strconv.Itoa(h.Line),
			string(h.Severity),
		})
	}
	return NewTable(
		"Complexity Hotspots",
		[]string{"Name", "Kind", "Complexity", "Line", "Severity"},
		rows,
		nil,
		hotspots,
	)
}

func clustersTable(clusters []models.Cluster) *Table {
	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		kinds := make([]string, len(c.Kinds))
		for i, k := range c.Kinds {
			kinds[i] = string(k)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d-%d", c.StartLine, c.EndLine),
			strconv.Itoa(c.Size),
			strings.Join(kinds, ", "),
		})
	}
	return NewTable(
		"Decision Point Clusters",
		[]string{"Lines", "Size", "Kinds"},
		rows,
		nil,
		clusters,
	)
}

func complexityRecommendationsSection(recs []models.ComplexityRecommendation) *Section {
	subs := make([]Section, 0, len(recs))
	for _, r := range recs {
		title := fmt.Sprintf("[%s] %s", r.Type, r.Message)
		content := r.Suggestion
		if r.Location != "" {
			content += " (" + r.Location + ")"
		}
		subs = append(subs, Section{Title: title, Content: content})
	}
	return &Section{Title: "Recommendations", Sections: subs, Data: recs}
}

func joinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ", ")
}
