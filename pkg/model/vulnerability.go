package model

// Severity represents a vulnerability severity level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// severityRank orders severities for threshold comparisons. Unknown ranks
// with low so a default "low" threshold never hides unscored advisories.
var severityRank = map[Severity]int{
	SeverityUnknown:  1,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// AtLeast reports whether the severity meets the given minimum level. An
// empty or unrecognized minimum never filters.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank[s] >= severityRank[min]
}

// SeverityFromCVSS converts a CVSS base score to a severity level.
func SeverityFromCVSS(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	case score > 0:
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// Vulnerability represents a single security advisory affecting a package.
// Records are supplied by an external vulnerability-lookup collaborator.
type Vulnerability struct {
	ID               string   `json:"id"`
	Summary          string   `json:"summary,omitempty"`
	Description      string   `json:"description,omitempty"`
	Severity         Severity `json:"severity,omitempty"`
	CVSSScore        float64  `json:"cvss_score,omitempty"`
	SeverityVector   string   `json:"severity_vector,omitempty"`
	AffectedVersions []string `json:"affected_versions,omitempty"`
	FixedVersions    []string `json:"fixed_versions,omitempty"`
	References       []string `json:"references,omitempty"`
}

// IsCritical reports whether the vulnerability is high or critical severity.
func (v Vulnerability) IsCritical() bool {
	return v.Severity == SeverityCritical || v.Severity == SeverityHigh
}
