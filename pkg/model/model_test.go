package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDependencyIdentifier tests the ecosystem:name@version key.
func TestDependencyIdentifier(t *testing.T) {
	dep := Dependency{Name: "requests", Version: "2.31.0", Ecosystem: EcosystemPip}
	assert.Equal(t, "pip:requests@2.31.0", dep.Identifier())
}

// TestDependencyPackageURL tests purl rendering, with and without a pinned
// version.
func TestDependencyPackageURL(t *testing.T) {
	pinned := Dependency{Name: "requests", Version: "2.31.0", Ecosystem: EcosystemPip}
	assert.Equal(t, "pkg:pypi/requests@2.31.0", pinned.PackageURL())

	wildcard := Dependency{Name: "leftpad", Version: WildcardVersion, Ecosystem: EcosystemPip}
	assert.Equal(t, "pkg:pypi/leftpad", wildcard.PackageURL())

	npm := Dependency{Name: "express", Version: "4.18.2", Ecosystem: EcosystemNpm}
	assert.Equal(t, "pkg:npm/express@4.18.2", npm.PackageURL())
}

// TestSeverityFromCVSS tests the CVSS-to-severity banding.
func TestSeverityFromCVSS(t *testing.T) {
	tests := []struct {
		score    float64
		expected Severity
	}{
		{9.8, SeverityCritical},
		{9.0, SeverityCritical},
		{7.5, SeverityHigh},
		{4.0, SeverityMedium},
		{0.1, SeverityLow},
		{0.0, SeverityUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SeverityFromCVSS(tt.score), "score %v", tt.score)
	}
}

// TestSeverityAtLeast tests the severity threshold ordering.
func TestSeverityAtLeast(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh))
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityMedium.AtLeast(SeverityHigh))
	assert.True(t, SeverityLow.AtLeast(SeverityLow))
	assert.True(t, SeverityUnknown.AtLeast(SeverityLow), "unscored advisories rank with low")
	assert.False(t, SeverityUnknown.AtLeast(SeverityMedium))
	assert.True(t, SeverityLow.AtLeast(Severity("")), "empty minimum never filters")
}

// TestNewMaturityScore tests the weight-normalized combination and level
// banding at the extremes.
func TestNewMaturityScore(t *testing.T) {
	weights := map[string]float64{
		"age": 0.30, "documentation": 0.20, "activity": 0.30, "adoption": 0.20,
	}

	top := NewMaturityScore("solid", map[string]float64{
		"age": 100, "documentation": 100, "activity": 100, "adoption": 100,
	}, weights, nil)
	assert.Equal(t, 100.0, top.OverallScore)
	assert.Equal(t, MaturityMature, top.MaturityLevel)
	assert.NotNil(t, top.Details)

	bottom := NewMaturityScore("fresh", map[string]float64{
		"age": 0, "documentation": 0, "activity": 0, "adoption": 0,
	}, weights, nil)
	assert.Equal(t, 0.0, bottom.OverallScore)
	assert.Equal(t, MaturityEarlyStage, bottom.MaturityLevel)

	mixed := NewMaturityScore("mid", map[string]float64{
		"age": 75, "documentation": 50, "activity": 50, "adoption": 25,
	}, weights, nil)
	assert.InDelta(t, 52.5, mixed.OverallScore, 1e-9)
	assert.Equal(t, MaturityEmerging, mixed.MaturityLevel)

	empty := NewMaturityScore("none", nil, nil, nil)
	assert.Equal(t, 0.0, empty.OverallScore)
}

// TestNewSecurityExposureScore tests the composite formula and its clamps.
func TestNewSecurityExposureScore(t *testing.T) {
	// 0.30*10 + 0.25*10 + 0.25*20 = 10.5 before the ceiling.
	ceiling := NewSecurityExposureScore("worst", 10, 10, 20, 0, 0, []string{"CVE-1"})
	assert.Equal(t, 10.0, ceiling.SESScore)
	assert.Equal(t, ExposureCritical, ceiling.SESLevel)
	assert.Equal(t, "Immediate action", ceiling.Action)

	floor := NewSecurityExposureScore("best", 0, 0, 0, 10, 10, nil)
	assert.Equal(t, 0.0, floor.SESScore)
	assert.Equal(t, ExposureMinimal, floor.SESLevel)
	assert.Equal(t, "No action needed", floor.Action)
	assert.NotNil(t, floor.Vulnerabilities)

	moderate := NewSecurityExposureScore("mid", 7, 4, 6.5, 0, 0, nil)
	assert.InDelta(t, 4.7, moderate.SESScore, 0.06)
	assert.Equal(t, ExposureModerate, moderate.SESLevel)
	assert.Equal(t, "Harden or patch", moderate.Action)
	assert.Equal(t, 7.0, moderate.Components["severity"])
}

// TestLicenseInfoFromSPDX tests license family flags and impact notes.
func TestLicenseInfoFromSPDX(t *testing.T) {
	mit := LicenseInfoFromSPDX("MIT")
	assert.True(t, mit.IsPermissive)
	assert.False(t, mit.IsCopyleft)
	assert.Empty(t, mit.ImpactNote)

	gpl := LicenseInfoFromSPDX("GPL-3.0")
	assert.True(t, gpl.IsCopyleft)
	assert.Contains(t, gpl.ImpactNote, "full source disclosure")

	mpl := LicenseInfoFromSPDX("MPL-2.0")
	assert.True(t, mpl.IsWeakCopyleft)
	assert.Contains(t, mpl.ImpactNote, "MPL-covered files")
}

// TestScanResultAggregates tests the result summary helpers.
func TestScanResultAggregates(t *testing.T) {
	result := &ScanResult{
		Dependencies: []Dependency{{Name: "requests"}, {Name: "flask"}},
		Vulnerabilities: map[string][]Vulnerability{
			"requests": {
				{ID: "CVE-1", Severity: SeverityCritical},
				{ID: "CVE-2", Severity: SeverityLow},
			},
			"flask": {},
		},
	}

	assert.Equal(t, 2, result.TotalDependencies())
	assert.Equal(t, 2, result.TotalVulnerabilities())
	assert.Equal(t, 1, result.CriticalVulnerabilities())
	assert.True(t, result.HasIssues())

	clean := &ScanResult{Dependencies: []Dependency{{Name: "requests"}}}
	assert.False(t, clean.HasIssues())

	immature := &ScanResult{LowMaturityPackages: []string{"newpkg"}}
	assert.True(t, immature.HasIssues(), "below-minimum maturity is actionable")
}
