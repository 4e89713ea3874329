package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched for in the project
// directory and its parents.
const DefaultConfigFile = ".depaudit.yaml"

// Config represents the configuration for the supply chain auditor.
type Config struct {
	// Scanning options
	MaxDepth       int `yaml:"maxDepth"`       // Maximum dependency tree depth
	TimeoutSeconds int `yaml:"timeoutSeconds"` // Per-request timeout

	// Vulnerability settings
	MinSeverity           string   `yaml:"minSeverity"`
	IgnoreVulnerabilities []string `yaml:"ignoreVulnerabilities"` // CVE/OSV IDs to ignore

	// License settings
	AllowedLicenses []string `yaml:"allowedLicenses"`
	BlockedLicenses []string `yaml:"blockedLicenses"`

	// Typosquatting settings
	TyposquatThreshold float64 `yaml:"typosquatThreshold"` // Similarity threshold (0-1)
	CheckTyposquatting bool    `yaml:"checkTyposquatting"`

	// Maturity settings
	CheckMaturity    bool    `yaml:"checkMaturity"`
	MinMaturityScore float64 `yaml:"minMaturityScore"` // Minimum acceptable score (0-100)

	// Exposure settings
	DefaultExposure float64 `yaml:"defaultExposure"` // SES exposure baseline

	// Ignore specific packages
	IgnorePackages []string `yaml:"ignorePackages"`

	// Output configuration
	Output struct {
		Format string `yaml:"format"` // text, json, sarif
		File   string `yaml:"file"`   // Output file path (stdout if empty)
	} `yaml:"output"`

	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	config := &Config{
		MaxDepth:           10,
		TimeoutSeconds:     30,
		MinSeverity:        "low",
		AllowedLicenses:    []string{"MIT", "Apache-2.0", "BSD-2-Clause", "BSD-3-Clause", "ISC"},
		BlockedLicenses:    []string{"GPL-3.0", "AGPL-3.0"},
		TyposquatThreshold: 0.85,
		CheckTyposquatting: true,
		CheckMaturity:      true,
		MinMaturityScore:   40.0,
		DefaultExposure:    5.0,
	}
	config.Output.Format = "text"
	return config
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig loads the configuration from the specified file path.
// If no path is provided, it looks for .depaudit.yaml in the current directory.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = DefaultConfigFile
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return default config
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// FindAndLoadConfig searches for a config file in the project directory and
// its parents, returning defaults when none is found.
func FindAndLoadConfig(projectPath string) (*Config, error) {
	config := DefaultConfig()

	currentDir := projectPath
	for {
		configPath := filepath.Join(currentDir, DefaultConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
			}
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
			}
			return config, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return config, nil
}

// SaveConfig writes the configuration to the given path.
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// IsPackageIgnored checks if a package should be ignored based on the
// configuration.
func (c *Config) IsPackageIgnored(packageName string) bool {
	for _, ignored := range c.IgnorePackages {
		if ignored == packageName {
			return true
		}
	}
	return false
}

// IsVulnerabilityIgnored checks if a vulnerability ID is on the ignore list.
func (c *Config) IsVulnerabilityIgnored(id string) bool {
	for _, ignored := range c.IgnoreVulnerabilities {
		if ignored == id {
			return true
		}
	}
	return false
}

// IsLicenseAllowed checks an SPDX identifier against the allow list.
func (c *Config) IsLicenseAllowed(spdxID string) bool {
	for _, allowed := range c.AllowedLicenses {
		if allowed == spdxID {
			return true
		}
	}
	return false
}

// IsLicenseBlocked checks an SPDX identifier against the block list.
func (c *Config) IsLicenseBlocked(spdxID string) bool {
	for _, blocked := range c.BlockedLicenses {
		if blocked == spdxID {
			return true
		}
	}
	return false
}
