package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/logger"
	"github.com/depaudit/depaudit/pkg/model"
	"github.com/depaudit/depaudit/pkg/parser"
	"github.com/depaudit/depaudit/pkg/registry"
	"github.com/depaudit/depaudit/pkg/scanner"
)

// Analyzer wires the manifest parser and scanners into a full project scan.
// Scanners are stateless; per-scan state (the registry cache) is created per
// Scan call, so one Analyzer is safe to reuse across concurrent scans.
type Analyzer struct {
	cfg        *config.Config
	client     *registry.Client
	classifier *scanner.Classifier
	typosquat  *scanner.TyposquatScanner
	maturity   *scanner.MaturityScorer
	exposure   *scanner.ExposureScorer
	license    *scanner.LicenseScanner
	tree       *scanner.TreeResolver
}

// New creates an analyzer from the given configuration.
func New(cfg *config.Config) *Analyzer {
	return NewWithClient(cfg, registry.NewClient(cfg.Timeout()))
}

// NewWithClient creates an analyzer using a caller-supplied registry client.
func NewWithClient(cfg *config.Config, client *registry.Client) *Analyzer {
	classifier := scanner.NewClassifier()
	return &Analyzer{
		cfg:        cfg,
		client:     client,
		classifier: classifier,
		typosquat:  scanner.NewTyposquatScanner(cfg),
		maturity:   scanner.NewMaturityScorer(cfg, client),
		exposure:   scanner.NewExposureScorer(cfg, classifier),
		license:    scanner.NewLicenseScanner(cfg, client),
		tree:       scanner.NewTreeResolver(cfg, client),
	}
}

// Scan parses the project's manifest and runs every enabled scanner.
// Vulnerability data is supplied by the caller; pass nil when none is
// available. Individual scanner failures degrade per record and never fail
// the scan.
func (a *Analyzer) Scan(ctx context.Context, projectPath string, vulns map[string][]model.Vulnerability) (*model.ScanResult, error) {
	deps, err := parser.ParseProject(projectPath)
	if err != nil {
		return nil, err
	}
	deps = a.filterIgnored(deps)
	logger.Infof("Scanning %d dependencies in %s", len(deps), projectPath)

	result := &model.ScanResult{
		ProjectPath:  projectPath,
		ScanTime:     time.Now(),
		Dependencies: deps,
	}
	cache := registry.NewCache()

	result.Vulnerabilities = a.filterIgnoredVulns(vulns)

	if a.cfg.CheckTyposquatting {
		result.TyposquatMatches = a.typosquat.Scan(deps)
	}

	result.Classifications = a.classifier.ClassifyDependencies(deps)
	result.LicenseIssues = a.license.Scan(ctx, deps, cache)

	if a.cfg.CheckMaturity {
		result.MaturityScores = a.maturity.Scan(ctx, deps, cache)
		result.LowMaturityPackages = lowMaturityPackages(result.MaturityScores, a.cfg.MinMaturityScore)
	}

	if len(result.Vulnerabilities) > 0 {
		result.SESScores = a.exposure.Score(result.Vulnerabilities, deps)
	}

	return result, nil
}

// ResolveTree builds the transitive dependency tree for the project's direct
// dependencies.
func (a *Analyzer) ResolveTree(ctx context.Context, projectPath string) (*scanner.Tree, error) {
	deps, err := parser.ParseProject(projectPath)
	if err != nil {
		return nil, err
	}
	deps = a.filterIgnored(deps)
	return a.tree.Resolve(ctx, deps), nil
}

func (a *Analyzer) filterIgnored(deps []model.Dependency) []model.Dependency {
	filtered := deps[:0]
	for _, dep := range deps {
		if a.cfg.IsPackageIgnored(dep.Name) {
			logger.Debugf("analyzer: ignoring package %s per config", dep.Name)
			continue
		}
		filtered = append(filtered, dep)
	}
	return filtered
}

// filterIgnoredVulns drops ignored advisory IDs and advisories below the
// configured minimum severity. Advisories without an explicit severity are
// ranked by their CVSS score.
func (a *Analyzer) filterIgnoredVulns(vulns map[string][]model.Vulnerability) map[string][]model.Vulnerability {
	if vulns == nil {
		return nil
	}
	minSeverity := model.Severity(a.cfg.MinSeverity)
	filtered := make(map[string][]model.Vulnerability, len(vulns))
	for pkg, list := range vulns {
		kept := make([]model.Vulnerability, 0, len(list))
		for _, v := range list {
			if a.cfg.IsVulnerabilityIgnored(v.ID) {
				continue
			}
			severity := v.Severity
			if severity == "" {
				severity = model.SeverityFromCVSS(v.CVSSScore)
			}
			if !severity.AtLeast(minSeverity) {
				logger.Debugf("analyzer: dropping %s, below minimum severity %s", v.ID, minSeverity)
				continue
			}
			kept = append(kept, v)
		}
		filtered[pkg] = kept
	}
	return filtered
}

// lowMaturityPackages returns the sorted names of packages scoring below the
// configured minimum maturity.
func lowMaturityPackages(scores map[string]model.MaturityScore, min float64) []string {
	if min <= 0 {
		return nil
	}
	var names []string
	for name, score := range scores {
		if score.OverallScore < min {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
