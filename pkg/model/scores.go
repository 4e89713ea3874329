package model

import "math"

// Maturity levels for the Project Maturity Index.
const (
	MaturityMature      = "mature"
	MaturityEstablished = "established"
	MaturityEmerging    = "emerging"
	MaturityEarlyStage  = "early-stage"
)

// MaturityScore is the 0-100 Project Maturity Index for a package.
type MaturityScore struct {
	PackageName   string             `json:"package_name"`
	OverallScore  float64            `json:"overall_score"`
	MaturityLevel string             `json:"maturity_level"`
	Factors       map[string]float64 `json:"factors"`
	Details       map[string]any     `json:"details"`
}

// NewMaturityScore combines per-factor sub-scores into an overall score using
// the given weights. The overall score is the weight-normalized sum of the
// factors.
func NewMaturityScore(packageName string, factors, weights map[string]float64, details map[string]any) MaturityScore {
	var totalWeight, weighted float64
	for factor, weight := range weights {
		totalWeight += weight
		weighted += factors[factor] * weight
	}
	overall := 0.0
	if totalWeight > 0 {
		overall = weighted / totalWeight
	}

	level := MaturityEarlyStage
	switch {
	case overall >= 80:
		level = MaturityMature
	case overall >= 60:
		level = MaturityEstablished
	case overall >= 40:
		level = MaturityEmerging
	}

	if details == nil {
		details = map[string]any{}
	}
	return MaturityScore{
		PackageName:   packageName,
		OverallScore:  round1(overall),
		MaturityLevel: level,
		Factors:       factors,
		Details:       details,
	}
}

// Exposure levels for the Security Exposure Score.
const (
	ExposureMinimal  = "minimal"
	ExposureLow      = "low"
	ExposureModerate = "moderate"
	ExposureHigh     = "high"
	ExposureCritical = "critical"
)

// SecurityExposureScore is the 0-10 composite exposure score for a package.
type SecurityExposureScore struct {
	PackageName     string             `json:"package_name"`
	SESScore        float64            `json:"ses_score"`
	SESLevel        string             `json:"ses_level"`
	Components      map[string]float64 `json:"components"`
	Vulnerabilities []string           `json:"vulnerabilities"`
	Action          string             `json:"action"`
}

// NewSecurityExposureScore combines the raw component inputs:
//
//	SES = 0.30*severity + 0.25*exploitability + 0.25*exposure
//	    - 0.15*mitigations - 0.15*updateStatus
//
// clamped to [0, 10].
func NewSecurityExposureScore(packageName string, severity, exploitability, exposure, mitigations, updateStatus float64, vulnerabilities []string) SecurityExposureScore {
	ses := 0.30*severity + 0.25*exploitability + 0.25*exposure -
		0.15*mitigations - 0.15*updateStatus
	ses = math.Max(0.0, math.Min(10.0, ses))

	var level, action string
	switch {
	case ses < 2:
		level, action = ExposureMinimal, "No action needed"
	case ses < 4:
		level, action = ExposureLow, "Monitor"
	case ses < 6:
		level, action = ExposureModerate, "Harden or patch"
	case ses < 8:
		level, action = ExposureHigh, "Patch urgently"
	default:
		level, action = ExposureCritical, "Immediate action"
	}

	if vulnerabilities == nil {
		vulnerabilities = []string{}
	}
	return SecurityExposureScore{
		PackageName: packageName,
		SESScore:    round1(ses),
		SESLevel:    level,
		Components: map[string]float64{
			"severity":       severity,
			"exploitability": exploitability,
			"exposure":       exposure,
			"mitigations":    mitigations,
			"update_status":  updateStatus,
		},
		Vulnerabilities: vulnerabilities,
		Action:          action,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
