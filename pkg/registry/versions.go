package registry

import (
	"github.com/Masterminds/semver/v3"

	"github.com/depaudit/depaudit/pkg/logger"
)

// LatestStable returns the newest non-prerelease, non-yanked version in the
// project's release history, or "" when none qualifies. Unparseable version
// strings are skipped.
func (p *Project) LatestStable() string {
	var latest *semver.Version
	var latestStr string

	for versionStr, files := range p.Releases {
		if releaseYanked(files) {
			continue
		}
		v, err := semver.NewVersion(versionStr)
		if err != nil {
			logger.Debugf("registry: could not parse version %q: %v", versionStr, err)
			continue
		}
		if v.Prerelease() != "" {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
			latestStr = versionStr
		}
	}
	return latestStr
}

// releaseYanked reports whether a release is unusable: it has no files, or
// every file is yanked.
func releaseYanked(files []ReleaseFile) bool {
	if len(files) == 0 {
		return true
	}
	for _, f := range files {
		if !f.Yanked {
			return false
		}
	}
	return true
}
