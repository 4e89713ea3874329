package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDefaultConfig tests the shipped defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 0.85, cfg.TyposquatThreshold)
	assert.True(t, cfg.CheckTyposquatting)
	assert.True(t, cfg.CheckMaturity)
	assert.Equal(t, 40.0, cfg.MinMaturityScore)
	assert.Equal(t, 5.0, cfg.DefaultExposure)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Contains(t, cfg.AllowedLicenses, "MIT")
	assert.Contains(t, cfg.BlockedLicenses, "AGPL-3.0")
}

// TestLoadConfig tests loading an explicit config file over the defaults.
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `maxDepth: 3
typosquatThreshold: 0.9
checkMaturity: false
ignorePackages:
  - internal-tool
output:
  format: json
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, 0.9, cfg.TyposquatThreshold)
	assert.False(t, cfg.CheckMaturity)
	assert.Equal(t, []string{"internal-tool"}, cfg.IgnorePackages)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 30, cfg.TimeoutSeconds, "unset fields keep defaults")
}

// TestLoadConfigMissingFile tests that a missing file yields defaults, not
// an error.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

// TestLoadConfigInvalidYAML tests that malformed YAML is an error.
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	assert.NoError(t, os.WriteFile(path, []byte("maxDepth: [not an int"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

// TestFindAndLoadConfig tests the upward directory search.
func TestFindAndLoadConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	assert.NoError(t, os.MkdirAll(nested, 0o755))
	assert.NoError(t, os.WriteFile(
		filepath.Join(root, DefaultConfigFile), []byte("maxDepth: 7\n"), 0o644))

	cfg, err := FindAndLoadConfig(nested)
	assert.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxDepth, "config should be found in an ancestor directory")
}

// TestSaveConfigRoundTrip tests that a saved config loads back identically.
func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 4
	cfg.IgnoreVulnerabilities = []string{"CVE-2024-0001"}

	path := filepath.Join(t.TempDir(), "sub", DefaultConfigFile)
	assert.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestTimeout tests the timeout fallback for unset values.
func TestTimeout(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 5}
	assert.Equal(t, 5*time.Second, cfg.Timeout())

	cfg.TimeoutSeconds = 0
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

// TestIgnoreAndPolicyChecks tests the list membership helpers.
func TestIgnoreAndPolicyChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnorePackages = []string{"internal-tool"}
	cfg.IgnoreVulnerabilities = []string{"CVE-2024-0001"}

	assert.True(t, cfg.IsPackageIgnored("internal-tool"))
	assert.False(t, cfg.IsPackageIgnored("requests"))

	assert.True(t, cfg.IsVulnerabilityIgnored("CVE-2024-0001"))
	assert.False(t, cfg.IsVulnerabilityIgnored("CVE-2024-0002"))

	assert.True(t, cfg.IsLicenseAllowed("MIT"))
	assert.False(t, cfg.IsLicenseAllowed("GPL-3.0"))

	assert.True(t, cfg.IsLicenseBlocked("GPL-3.0"))
	assert.False(t, cfg.IsLicenseBlocked("MIT"))
}
