package safety

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auspexlabs/auspex/pkg/models"
	"github.com/auspexlabs/auspex/pkg/pytree"
)

func analyzeSource(t *testing.T, source string) *models.SafetyReport {
	t.Helper()
	report, err := New().Analyze(context.Background(), []byte(source))
	require.NoError(t, err)
	return report
}

func findingByID(report *models.SafetyReport, id string) *models.Finding {
	for i := range report.Findings {
		if report.Findings[i].Pattern.ID == id {
			return &report.Findings[i]
		}
	}
	return nil
}

func TestCleanSourceHasNoFindings(t *testing.T) {
	source := `def add(a, b):
    return a + b
`
	report := analyzeSource(t, source)

	assert.Empty(t, report.Findings)
	assert.Empty(t, report.Recommendations)
	assert.Equal(t, 1, report.Metrics.NumberOfFunctions)
}

func TestHardcodedCredentials(t *testing.T) {
	source := `api_key = "1234secret"
password = get_password()
PASSWORD_HASH = "abc123"
timeout = "30"
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternCredentials)
	require.NotNil(t, f)
	// Call-valued and non-credential assignments do not match.
	assert.Equal(t, []int{1, 3}, f.Locations)
	assert.Equal(t, models.RiskHigh, f.Pattern.RiskLevel)
	assert.Equal(t, models.CategorySecurity, f.Pattern.Category)
}

func TestUnsafeDeserialization(t *testing.T) {
	source := `import pickle

data = pickle.loads(payload)
config = yaml.load(stream)
safe = json.loads(payload)
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternDeserialization)
	require.NotNil(t, f)
	assert.Equal(t, []int{3, 4}, f.Locations)
}

func TestSQLConcatenation(t *testing.T) {
	source := `query = "SELECT * FROM users WHERE name = '" + user + "'"
greeting = "hello " + name
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternSQLConcat)
	require.NotNil(t, f)
	assert.Equal(t, []int{1}, f.Locations)
}

func TestSQLConcatenationInChainedCall(t *testing.T) {
	// The concatenation sits inside the callee expression of the chained
	// fetchall() call; it must still be reachable by the walk.
	source := `rows = db.execute("SELECT * FROM users WHERE id = " + uid).fetchall()
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternSQLConcat)
	require.NotNil(t, f)
	assert.Equal(t, []int{1}, f.Locations)
}

func TestSQLConcatenationNodeBoundary(t *testing.T) {
	// Keywords split across separate concatenations never combine: each
	// `+` node is judged on its two immediate operands only.
	source := `query = "SEL" + "ECT id " + suffix
`
	report := analyzeSource(t, source)
	assert.Nil(t, findingByID(report, PatternSQLConcat))
}

func TestUnsafeFilePath(t *testing.T) {
	source := `f = open(base_dir + filename)
g = open("/etc/hosts")
h = open("logs/" + "app.log")
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternFilePath)
	require.NotNil(t, f)
	assert.Equal(t, []int{1}, f.Locations)
}

func TestDebugInfo(t *testing.T) {
	source := `print("debug value", x)
logging.debug("state: %s", state)
logging.info("started")
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternDebugInfo)
	require.NotNil(t, f)
	assert.Equal(t, []int{1, 2}, f.Locations)
	assert.Equal(t, models.RiskLow, f.Pattern.RiskLevel)
}

func TestBroadExcept(t *testing.T) {
	source := `try:
    risky()
except Exception:
    pass

try:
    risky()
except:
    pass

try:
    risky()
except ValueError:
    raise
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternErrorSuppress)
	require.NotNil(t, f)
	assert.Equal(t, []int{3, 8}, f.Locations)
	assert.Equal(t, models.CategoryReliability, f.Pattern.Category)
}

func TestFindingsFollowCatalogOrder(t *testing.T) {
	source := `print("x")
password = "hunter2"
`
	report := analyzeSource(t, source)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, PatternCredentials, report.Findings[0].Pattern.ID)
	assert.Equal(t, PatternDebugInfo, report.Findings[1].Pattern.ID)
}

func TestDuplicateLinesDeduplicated(t *testing.T) {
	// Two matches on one line collapse to a single location.
	source := `print(print("x"))
`
	report := analyzeSource(t, source)

	f := findingByID(report, PatternDebugInfo)
	require.NotNil(t, f)
	assert.Equal(t, []int{1}, f.Locations)
}

func TestMetrics(t *testing.T) {
	source := `# module docstring comment
class Handler:
    def get(self, key):
        if key:
            return key
        return None

def main():
    pass
`
	report := analyzeSource(t, source)

	m := report.Metrics
	assert.Equal(t, 2, m.NumberOfFunctions)
	assert.Equal(t, 1, m.NumberOfClasses)
	// The safety metric counts conditionals, loops and booleans only.
	assert.Equal(t, 2, m.CyclomaticComplexity)
	assert.Equal(t, 8, m.LinesOfCode)
	assert.InDelta(t, 1.0/8.0, m.CommentRatio, 1e-9)
}

func TestRecommendationsMirrorFindings(t *testing.T) {
	source := `password = "hunter2"
`
	report := analyzeSource(t, source)

	require.Len(t, report.Recommendations, 1)
	r := report.Recommendations[0]
	assert.Equal(t, "Address Hardcoded Credentials", r.Title)
	assert.Equal(t, "Use environment variables or secure secret management", r.Remediation)
	assert.Equal(t, models.RiskHigh, r.Priority)
}

func TestComplexityRecommendation(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 11; i++ {
		b.WriteString("if x:\n    pass\n")
	}
	report := analyzeSource(t, b.String())

	require.Len(t, report.Recommendations, 1)
	r := report.Recommendations[0]
	assert.Equal(t, "Reduce Code Complexity", r.Title)
	assert.Equal(t, models.RiskMedium, r.Priority)
}

func TestAnalyzeInvalidSyntax(t *testing.T) {
	_, err := New().Analyze(context.Background(), []byte("def broken(:\n"))
	assert.ErrorIs(t, err, pytree.ErrInvalidSyntax)
}

func TestCatalogComplete(t *testing.T) {
	patterns := Catalog()
	require.Len(t, patterns, 6)
	for _, p := range patterns {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
		assert.NotEmpty(t, p.Remediation)
	}
}
