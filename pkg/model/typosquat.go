package model

// Detection methods reported by the typosquat scanner.
const (
	MethodLevenshtein   = "levenshtein"
	MethodCharacterSwap = "character_swap"
	MethodHomoglyph     = "homoglyph"
	MethodPrefixSuffix  = "prefix_suffix"
)

// Risk levels for typosquat matches, derived from the similarity score.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// TyposquatMatch represents a potential counterfeit package name and the
// popular package it appears to imitate.
type TyposquatMatch struct {
	SuspiciousPackage string  `json:"suspicious_package"`
	LegitimatePackage string  `json:"legitimate_package"`
	SimilarityScore   float64 `json:"similarity_score"`
	DetectionMethod   string  `json:"detection_method"`
	RiskLevel         string  `json:"risk_level"`
}
