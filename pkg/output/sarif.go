package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/depaudit/depaudit/pkg/model"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SarifReport represents the top-level SARIF report structure
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single run of the analysis tool
type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

// SarifTool represents the tool that performed the analysis
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver represents the driver of the tool
type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

// SarifRule represents a rule that was evaluated during the analysis
type SarifRule struct {
	ID               string            `json:"id"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Help             SarifMessage      `json:"help"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// SarifResult represents a result of the analysis
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage represents a message in the SARIF report
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation represents a location in the code
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation represents a physical location in the code
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
}

// SarifArtifactLocation represents the location of an artifact
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifInvocation represents an invocation of the tool
type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	StartTimeUtc        string `json:"startTimeUtc"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

// GenerateSarif converts a scan result to SARIF format, reporting typosquat
// matches, vulnerable packages, and license issues as results.
func GenerateSarif(result *model.ScanResult) ([]byte, error) {
	rules := []SarifRule{
		{
			ID:               "typosquat",
			ShortDescription: SarifMessage{Text: "Potential typosquatting package"},
			FullDescription:  SarifMessage{Text: "This dependency's name closely imitates a popular package and may be a counterfeit."},
			Help:             SarifMessage{Text: "Verify the package is the one you intended to install."},
		},
		{
			ID:               "vulnerable-package",
			ShortDescription: SarifMessage{Text: "Known vulnerabilities"},
			FullDescription:  SarifMessage{Text: "This dependency has known security vulnerabilities."},
			Help:             SarifMessage{Text: "Update to a fixed version or apply mitigations."},
		},
		{
			ID:               "license-violation",
			ShortDescription: SarifMessage{Text: "License policy violation"},
			FullDescription:  SarifMessage{Text: "This dependency's license is outside the configured policy."},
			Help:             SarifMessage{Text: "Review the license terms or replace the dependency."},
		},
	}

	results := make([]SarifResult, 0)
	location := []SarifLocation{{
		PhysicalLocation: SarifPhysicalLocation{
			ArtifactLocation: SarifArtifactLocation{URI: result.ProjectPath},
		},
	}}

	for _, match := range result.TyposquatMatches {
		level := "warning"
		if match.RiskLevel == model.RiskHigh {
			level = "error"
		}
		results = append(results, SarifResult{
			RuleID: "typosquat",
			Level:  level,
			Message: SarifMessage{Text: fmt.Sprintf(
				"%s resembles %s (score %.2f, method %s)",
				match.SuspiciousPackage, match.LegitimatePackage,
				match.SimilarityScore, match.DetectionMethod)},
			Locations: location,
		})
	}

	for pkg, vulns := range result.Vulnerabilities {
		if len(vulns) == 0 {
			continue
		}
		var ids []string
		level := "warning"
		for _, v := range vulns {
			ids = append(ids, v.ID)
			if v.IsCritical() {
				level = "error"
			}
		}
		results = append(results, SarifResult{
			RuleID: "vulnerable-package",
			Level:  level,
			Message: SarifMessage{Text: fmt.Sprintf(
				"%s has %d known vulnerabilities: %s", pkg, len(vulns), strings.Join(ids, ", "))},
			Locations: location,
		})
	}

	for _, issue := range result.LicenseIssues {
		results = append(results, SarifResult{
			RuleID: "license-violation",
			Level:  "warning",
			Message: SarifMessage{Text: fmt.Sprintf(
				"%s is licensed %s", issue.Dependency.Name, issue.License.SPDXID)},
			Locations: location,
		})
	}

	now := time.Now().UTC()
	report := SarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:           "depaudit",
						Version:        "1.0.0",
						InformationURI: "https://github.com/depaudit/depaudit",
						Rules:          rules,
					},
				},
				Results: results,
				Invocations: []SarifInvocation{
					{
						ExecutionSuccessful: true,
						StartTimeUtc:        result.ScanTime.UTC().Format(time.RFC3339),
						EndTimeUtc:          now.Format(time.RFC3339),
					},
				},
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}
