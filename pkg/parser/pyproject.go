package parser

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/depaudit/depaudit/pkg/logger"
	"github.com/depaudit/depaudit/pkg/model"
)

// pyprojectFile is the subset of a PEP 621 pyproject.toml the parser needs.
type pyprojectFile struct {
	Project struct {
		Name         string   `toml:"name"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// ParsePyproject parses the [project] dependencies of a pyproject.toml.
// Entries that cannot be parsed are logged and skipped, matching the
// requirements.txt behavior.
func ParsePyproject(path string) ([]model.Dependency, error) {
	var doc pyprojectFile
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var deps []model.Dependency
	for _, raw := range doc.Project.Dependencies {
		// PEP 508 allows whitespace around operators; the requirement
		// pattern does not, so compact the entry first.
		dep, ok := parseRequirementLine(strings.ReplaceAll(raw, " ", ""), path)
		if !ok {
			logger.Debugf("parser: skipping unparseable dependency %q in %s", raw, path)
			continue
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
