package scanner

import (
	"context"
	"strings"

	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/logger"
	"github.com/depaudit/depaudit/pkg/model"
	"github.com/depaudit/depaudit/pkg/registry"
)

const osiClassifierPrefix = "License :: OSI Approved :: "

// spdxAliases maps common registry license strings to SPDX identifiers.
var spdxAliases = map[string]string{
	"mit":                           "MIT",
	"mit license":                   "MIT",
	"apache 2.0":                    "Apache-2.0",
	"apache license 2.0":            "Apache-2.0",
	"apache-2.0":                    "Apache-2.0",
	"apache software license":       "Apache-2.0",
	"bsd":                           "BSD-3-Clause",
	"bsd license":                   "BSD-3-Clause",
	"bsd-2-clause":                  "BSD-2-Clause",
	"bsd-3-clause":                  "BSD-3-Clause",
	"gpl":                           "GPL-3.0",
	"gpl-3.0":                       "GPL-3.0",
	"gpl v3":                        "GPL-3.0",
	"gnu general public license v3": "GPL-3.0",
	"lgpl":                          "LGPL-3.0",
	"lgpl-3.0":                      "LGPL-3.0",
	"agpl":                          "AGPL-3.0",
	"agpl-3.0":                      "AGPL-3.0",
	"isc":                           "ISC",
	"isc license":                   "ISC",
	"mpl-2.0":                       "MPL-2.0",
	"mozilla public license 2.0":    "MPL-2.0",
	"unlicense":                     "Unlicense",
	"public domain":                 "Unlicense",
	"cc0":                           "CC0-1.0",
}

// LicenseScanner checks dependency licenses against the configured policy.
type LicenseScanner struct {
	cfg    *config.Config
	client *registry.Client
}

// NewLicenseScanner creates a license compliance scanner.
func NewLicenseScanner(cfg *config.Config, client *registry.Client) *LicenseScanner {
	return &LicenseScanner{cfg: cfg, client: client}
}

// Scan returns the dependencies whose license violates the configured
// policy. Packages with unfetchable or undeclared licenses are skipped, not
// errored.
func (s *LicenseScanner) Scan(ctx context.Context, deps []model.Dependency, cache *registry.Cache) []model.LicenseIssue {
	var issues []model.LicenseIssue
	for _, dep := range deps {
		info, ok := s.licenseFor(ctx, dep, cache)
		if !ok {
			continue
		}
		if !s.allowed(info) {
			issues = append(issues, model.LicenseIssue{Dependency: dep, License: info})
		}
	}
	return issues
}

func (s *LicenseScanner) licenseFor(ctx context.Context, dep model.Dependency, cache *registry.Cache) (model.LicenseInfo, bool) {
	project, ok := cache.Get(dep.Name)
	if !ok {
		var err error
		project, err = s.client.Project(ctx, dep.Name)
		if err != nil {
			logger.Debugf("license: metadata unavailable for %s: %v", dep.Name, err)
			return model.LicenseInfo{}, false
		}
		cache.Put(dep.Name, project)
	}
	if project == nil {
		return model.LicenseInfo{}, false
	}

	// Trove classifiers are more reliable than the free-form license field.
	for _, classifier := range project.Info.Classifiers {
		if strings.HasPrefix(classifier, osiClassifierPrefix) {
			name := strings.TrimPrefix(classifier, osiClassifierPrefix)
			return model.LicenseInfoFromSPDX(normalizeSPDX(name)), true
		}
	}

	raw := strings.TrimSpace(project.Info.License)
	if raw == "" {
		return model.LicenseInfo{}, false
	}
	return model.LicenseInfoFromSPDX(normalizeSPDX(raw)), true
}

func normalizeSPDX(raw string) string {
	if spdx, ok := spdxAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return spdx
	}
	return raw
}

// allowed applies the policy: an allow list is authoritative when present; a
// block list is checked next; otherwise permissive licenses pass and strong
// copyleft fails.
func (s *LicenseScanner) allowed(info model.LicenseInfo) bool {
	if len(s.cfg.AllowedLicenses) > 0 {
		return s.cfg.IsLicenseAllowed(info.SPDXID)
	}
	if len(s.cfg.BlockedLicenses) > 0 && s.cfg.IsLicenseBlocked(info.SPDXID) {
		return false
	}
	return info.IsPermissive && !info.IsCopyleft
}
