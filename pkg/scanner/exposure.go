package scanner

import (
	"sort"
	"strings"

	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/model"
)

// RoleMultipliers adjust the exposure baseline by package role. The table is
// tunable deployment data, not a security boundary; unknown roles fall back
// to a moderate default.
var RoleMultipliers = map[string]float64{
	"network":   1.3,
	"crypto":    1.2,
	"parser":    1.1,
	"database":  1.2,
	"auth":      1.3,
	"file":      1.0,
	"system":    1.1,
	"template":  0.9,
	"markup":    0.8,
	"wsgi":      0.9,
	"signaling": 0.7,
	"typing":    0.5,
	"docs":      0.4,
	"testing":   0.5,
	"dev":       0.4,
	"cli":       0.6,
	"utility":   0.5,
	"unknown":   0.8,
}

const defaultRoleMultiplier = 0.8

// ExposureScorer computes the Security Exposure Score per package from
// vulnerability data and the risk classifier's role assignments.
type ExposureScorer struct {
	classifier      *Classifier
	defaultExposure float64
}

// NewExposureScorer creates a scorer with the configured exposure baseline.
func NewExposureScorer(cfg *config.Config, classifier *Classifier) *ExposureScorer {
	exposure := cfg.DefaultExposure
	if exposure <= 0 {
		exposure = 5.0
	}
	return &ExposureScorer{classifier: classifier, defaultExposure: exposure}
}

// Score computes one SecurityExposureScore per entry in vulns. Packages with
// an empty vulnerability list score 0/minimal. The deps list supplies role
// classifications for the exposure multiplier.
func (s *ExposureScorer) Score(vulns map[string][]model.Vulnerability, deps []model.Dependency) map[string]model.SecurityExposureScore {
	roles := make(map[string]string, len(deps))
	for _, dep := range deps {
		classification := s.classifier.Classify(dep.Name)
		if len(classification.Keywords) > 0 {
			roles[strings.ToLower(dep.Name)] = classification.Keywords[0]
		}
	}

	scores := make(map[string]model.SecurityExposureScore, len(vulns))
	for packageName, list := range vulns {
		if len(list) == 0 {
			scores[packageName] = model.SecurityExposureScore{
				PackageName:     packageName,
				SESScore:        0.0,
				SESLevel:        model.ExposureMinimal,
				Components:      map[string]float64{},
				Vulnerabilities: []string{},
				Action:          "No action needed",
			}
			continue
		}

		maxCVSS := 0.0
		for _, v := range list {
			if v.CVSSScore > maxCVSS {
				maxCVSS = v.CVSSScore
			}
		}
		severity := severityComponent(maxCVSS)
		exploitability := exploitabilityComponent(list)

		role, ok := roles[packageKey(packageName)]
		if !ok {
			role = "unknown"
		}
		multiplier, ok := RoleMultipliers[role]
		if !ok {
			multiplier = defaultRoleMultiplier
		}
		exposure := s.defaultExposure * multiplier

		// Mitigations and update status stay 0: there is no way to observe
		// whether a fix was actually applied.
		var ids []string
		for _, v := range list {
			if v.ID != "" {
				ids = append(ids, v.ID)
			}
		}

		scores[packageName] = model.NewSecurityExposureScore(
			packageName, severity, exploitability, exposure, 0, 0, ids)
	}
	return scores
}

// VulnerablePackageNames returns the sorted set of bare package names that
// have at least one vulnerability, suitable for tree path-finding.
func VulnerablePackageNames(vulns map[string][]model.Vulnerability) []string {
	set := map[string]struct{}{}
	for key, list := range vulns {
		if len(list) == 0 {
			continue
		}
		set[packageKey(key)] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// packageKey strips an ecosystem prefix and version suffix from keys like
// "pip:idna@2.5", "idna@2.5", or "idna".
func packageKey(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// severityComponent maps the maximum CVSS score to the severity input.
func severityComponent(cvss float64) float64 {
	switch {
	case cvss >= 9.0:
		return 10
	case cvss >= 7.0:
		return 7
	case cvss >= 4.0:
		return 4
	default:
		return 1
	}
}

// exploitabilityComponent is the maximum attack-vector-derived score across
// the package's vulnerabilities. Vectors are parsed from CVSS vector strings
// when present; otherwise a high CVSS score implies network exploitability.
func exploitabilityComponent(vulns []model.Vulnerability) float64 {
	max := 1.0
	for _, v := range vulns {
		if score, ok := attackVectorScore(v.SeverityVector); ok {
			if score > max {
				max = score
			}
		} else if v.CVSSScore >= 7.0 && max < 7 {
			max = 7
		}
	}
	return max
}

// attackVectorScore parses the AV: token of a CVSS vector string such as
// "CVSS:3.1/AV:N/AC:L/...".
func attackVectorScore(vector string) (float64, bool) {
	if vector == "" || !strings.Contains(vector, ":") {
		return 0, false
	}
	for _, part := range strings.Split(strings.ToUpper(vector), "/") {
		if !strings.HasPrefix(part, "AV:") {
			continue
		}
		switch strings.TrimPrefix(part, "AV:") {
		case "N":
			return 10, true
		case "A":
			return 7, true
		case "L":
			return 4, true
		case "P":
			return 1, true
		}
	}
	return 0, false
}
