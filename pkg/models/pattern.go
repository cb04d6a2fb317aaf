package models

// RiskLevel grades a risk pattern.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PatternCategory groups risk patterns by concern.
type PatternCategory string

const (
	CategorySecurity     PatternCategory = "security"
	CategoryBestPractice PatternCategory = "best_practice"
	CategoryReliability  PatternCategory = "reliability"
)

// RiskPattern describes one entry of the static risk catalog. The catalog is
// immutable for the process lifetime.
type RiskPattern struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RiskLevel   RiskLevel       `json:"risk_level"`
	Remediation string          `json:"remediation"`
	Category    PatternCategory `json:"category"`
}

// Finding records every location at which one cataloged pattern matched.
// There is at most one Finding per pattern per analysis run; Locations is
// ordered ascending and deduplicated.
type Finding struct {
	Pattern   RiskPattern `json:"pattern"`
	Locations []int       `json:"locations"`
}
