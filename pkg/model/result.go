package model

import "time"

// ScanResult aggregates the output of every scanner for one project scan.
// LowMaturityPackages lists the packages scoring below the configured
// minimum maturity, sorted by name.
type ScanResult struct {
	ProjectPath         string                                  `json:"project_path"`
	ScanTime            time.Time                               `json:"scan_time"`
	Dependencies        []Dependency                            `json:"dependencies"`
	Vulnerabilities     map[string][]Vulnerability              `json:"vulnerabilities,omitempty"`
	TyposquatMatches    []TyposquatMatch                        `json:"typosquat_matches,omitempty"`
	Classifications     map[RiskCategory][]ClassifiedDependency `json:"classifications,omitempty"`
	MaturityScores      map[string]MaturityScore                `json:"maturity_scores,omitempty"`
	LowMaturityPackages []string                                `json:"low_maturity_packages,omitempty"`
	SESScores           map[string]SecurityExposureScore        `json:"ses_scores,omitempty"`
	LicenseIssues       []LicenseIssue                          `json:"license_issues,omitempty"`
}

// TotalDependencies returns the number of dependencies scanned.
func (r *ScanResult) TotalDependencies() int {
	return len(r.Dependencies)
}

// TotalVulnerabilities returns the number of known vulnerabilities across all
// packages.
func (r *ScanResult) TotalVulnerabilities() int {
	total := 0
	for _, vulns := range r.Vulnerabilities {
		total += len(vulns)
	}
	return total
}

// CriticalVulnerabilities counts high and critical severity vulnerabilities.
func (r *ScanResult) CriticalVulnerabilities() int {
	count := 0
	for _, vulns := range r.Vulnerabilities {
		for _, v := range vulns {
			if v.IsCritical() {
				count++
			}
		}
	}
	return count
}

// HasIssues reports whether the scan surfaced anything actionable.
func (r *ScanResult) HasIssues() bool {
	return r.TotalVulnerabilities() > 0 ||
		len(r.TyposquatMatches) > 0 ||
		len(r.LicenseIssues) > 0 ||
		len(r.LowMaturityPackages) > 0
}
