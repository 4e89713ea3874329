package model

// RiskCategory groups packages by how security-relevant they are.
type RiskCategory string

const (
	CategorySecurityRelevant      RiskCategory = "security_relevant"
	CategoryConditionallyRelevant RiskCategory = "conditionally_relevant"
	CategorySupport               RiskCategory = "support"
)

// PackageClassification is the risk classifier's verdict for one package.
// Keywords[0] is the package's role, consumed by the exposure scorer.
type PackageClassification struct {
	PackageName string       `json:"package_name"`
	Category    RiskCategory `json:"category"`
	Reason      string       `json:"reason"`
	Keywords    []string     `json:"keywords"`
}

// ClassifiedDependency pairs a dependency with its classification.
type ClassifiedDependency struct {
	Dependency     Dependency            `json:"dependency"`
	Classification PackageClassification `json:"classification"`
}
