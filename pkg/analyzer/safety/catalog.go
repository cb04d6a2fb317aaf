package safety

import "github.com/auspexlabs/auspex/pkg/models"

// Pattern IDs, in report order.
const (
	PatternCredentials     = "hardcoded_credentials"
	PatternDeserialization = "unsafe_deserialization"
	PatternSQLConcat       = "sql_concatenation"
	PatternFilePath        = "file_path_manipulation"
	PatternDebugInfo       = "debug_info"
	PatternErrorSuppress   = "error_suppression"
)

// Catalog returns the static risk-pattern catalog. The slice order is the
// order findings appear in reports.
func Catalog() []models.RiskPattern {
	return []models.RiskPattern{
		{
			ID:          PatternCredentials,
			Name:        "Hardcoded Credentials",
			Description: "Credentials or secrets directly embedded in code",
			RiskLevel:   models.RiskHigh,
			Remediation: "Use environment variables or secure secret management",
			Category:    models.CategorySecurity,
		},
		{
			ID:          PatternDeserialization,
			Name:        "Unsafe Deserialization",
			Description: "Direct deserialization of untrusted data",
			RiskLevel:   models.RiskHigh,
			Remediation: "Implement proper input validation and sanitization",
			Category:    models.CategorySecurity,
		},
		{
			ID:          PatternSQLConcat,
			Name:        "SQL String Concatenation",
			Description: "Direct string concatenation in SQL queries",
			RiskLevel:   models.RiskHigh,
			Remediation: "Use parameterized queries or ORM",
			Category:    models.CategorySecurity,
		},
		{
			ID:          PatternFilePath,
			Name:        "Unsafe File Path Handling",
			Description: "Insufficient validation of file paths",
			RiskLevel:   models.RiskMedium,
			Remediation: "Use path sanitization and access control",
			Category:    models.CategorySecurity,
		},
		{
			ID:          PatternDebugInfo,
			Name:        "Debug Information",
			Description: "Debug/trace information in production code",
			RiskLevel:   models.RiskLow,
			Remediation: "Remove or disable debug code in production",
			Category:    models.CategoryBestPractice,
		},
		{
			ID:          PatternErrorSuppress,
			Name:        "Broad Error Suppression",
			Description: "Catching all exceptions without proper handling",
			RiskLevel:   models.RiskMedium,
			Remediation: "Catch specific exceptions and handle appropriately",
			Category:    models.CategoryReliability,
		},
	}
}
