package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/depaudit/depaudit/pkg/model"
)

func sampleResult() *model.ScanResult {
	return &model.ScanResult{
		ProjectPath: "/tmp/project",
		ScanTime:    time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Dependencies: []model.Dependency{
			{Name: "reqeusts", Version: "1.0.0", Ecosystem: model.EcosystemPip},
			{Name: "viral", Version: "2.0.0", Ecosystem: model.EcosystemPip},
		},
		Vulnerabilities: map[string][]model.Vulnerability{
			"reqeusts": {{ID: "CVE-2026-0001", Severity: model.SeverityCritical, CVSSScore: 9.1}},
		},
		TyposquatMatches: []model.TyposquatMatch{{
			SuspiciousPackage: "reqeusts",
			LegitimatePackage: "requests",
			SimilarityScore:   0.95,
			DetectionMethod:   model.MethodCharacterSwap,
			RiskLevel:         model.RiskHigh,
		}},
		MaturityScores: map[string]model.MaturityScore{
			"reqeusts": {
				PackageName:   "reqeusts",
				OverallScore:  50.0,
				MaturityLevel: model.MaturityEmerging,
				Details:       map[string]any{"error": "could not fetch metadata"},
			},
		},
		LowMaturityPackages: []string{"reqeusts"},
		LicenseIssues: []model.LicenseIssue{{
			Dependency: model.Dependency{Name: "viral", Version: "2.0.0", Ecosystem: model.EcosystemPip},
			License:    model.LicenseInfoFromSPDX("GPL-3.0"),
		}},
	}
}

// TestWriteText tests the console report sections.
func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "Supply chain audit: /tmp/project")
	assert.Contains(t, out, "Scanned 2 dependencies")
	assert.Contains(t, out, "Potential typosquats (1)")
	assert.Contains(t, out, "reqeusts")
	assert.Contains(t, out, "character_swap")
	assert.Contains(t, out, "Package maturity (1)")
	assert.Contains(t, out, "low confidence: could not fetch metadata")
	assert.Contains(t, out, "below minimum score")
	assert.Contains(t, out, "1 of 1 packages score below the configured minimum")
	assert.Contains(t, out, "License issues (1)")
	assert.Contains(t, out, "GPL-3.0")
	assert.NotContains(t, out, "No issues found.")
}

// TestWriteTextClean tests the no-findings fallback line.
func TestWriteTextClean(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, &model.ScanResult{
		ProjectPath:  "/tmp/project",
		ScanTime:     time.Now(),
		Dependencies: []model.Dependency{{Name: "requests", Version: "2.31.0"}},
	})

	assert.Contains(t, buf.String(), "No issues found.")
}

// TestGenerateJSON tests that the JSON report round-trips.
func TestGenerateJSON(t *testing.T) {
	data, err := GenerateJSON(sampleResult())
	assert.NoError(t, err)

	var decoded model.ScanResult
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "/tmp/project", decoded.ProjectPath)
	assert.Len(t, decoded.TyposquatMatches, 1)
	assert.Equal(t, "requests", decoded.TyposquatMatches[0].LegitimatePackage)
}

// TestGenerateSarif tests the SARIF report structure and rule mapping.
func TestGenerateSarif(t *testing.T) {
	data, err := GenerateSarif(sampleResult())
	assert.NoError(t, err)

	var report SarifReport
	assert.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "2.1.0", report.Version)
	assert.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, "depaudit", run.Tool.Driver.Name)
	assert.Len(t, run.Tool.Driver.Rules, 3)
	assert.Len(t, run.Results, 3, "one typosquat, one vulnerable package, one license issue")

	byRule := map[string]SarifResult{}
	for _, result := range run.Results {
		byRule[result.RuleID] = result
	}
	assert.Equal(t, "error", byRule["typosquat"].Level, "high risk maps to error")
	assert.Equal(t, "error", byRule["vulnerable-package"].Level, "critical severity maps to error")
	assert.Equal(t, "warning", byRule["license-violation"].Level)
	assert.Contains(t, byRule["typosquat"].Message.Text, "resembles requests")

	assert.Len(t, run.Invocations, 1)
	assert.True(t, run.Invocations[0].ExecutionSuccessful)
}

// TestGenerateSarifEmpty tests that a clean scan still emits a well-formed
// report with an empty results array.
func TestGenerateSarifEmpty(t *testing.T) {
	data, err := GenerateSarif(&model.ScanResult{ProjectPath: "/tmp/clean", ScanTime: time.Now()})
	assert.NoError(t, err)

	assert.Contains(t, string(data), `"results": []`)
}
