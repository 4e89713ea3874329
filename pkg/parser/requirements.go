package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/depaudit/depaudit/pkg/logger"
	"github.com/depaudit/depaudit/pkg/model"
)

// Matches: package_name[extras]>=version,<version2 ; markers  # comment
var requirementPattern = regexp.MustCompile(
	`^([a-zA-Z0-9][-a-zA-Z0-9._]*)` + // name
		`(?:\[[^\]]+\])?` + // optional extras
		`([<>=!~][^;#\s]*)?` + // optional version specifier
		`(?:\s*;[^#]*)?` + // optional environment markers
		`(?:\s*#.*)?$`, // trailing comment
)

// requirementsManifests are the requirements-style manifests read for
// direct dependencies, in load order.
var requirementsManifests = []string{"requirements.txt", "requirements-dev.txt"}

// ParseProject reads every supported manifest in the project directory
// (requirements.txt, requirements-dev.txt, and pyproject.toml) and returns
// the declared direct dependencies. The first declaration of a package wins
// on duplicates.
func ParseProject(projectPath string) ([]model.Dependency, error) {
	var deps []model.Dependency
	found := false

	for _, name := range requirementsManifests {
		path := filepath.Join(projectPath, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		found = true
		parsed, err := ParseRequirements(path)
		if err != nil {
			return nil, err
		}
		deps = append(deps, parsed...)
	}

	pyprojectPath := filepath.Join(projectPath, "pyproject.toml")
	if _, err := os.Stat(pyprojectPath); err == nil {
		found = true
		parsed, err := ParsePyproject(pyprojectPath)
		if err != nil {
			return nil, err
		}
		deps = append(deps, parsed...)
	}

	if !found {
		return nil, fmt.Errorf("no dependency manifest found in %s", projectPath)
	}
	return dedupe(deps), nil
}

// dedupe keeps the first declaration of each package name.
func dedupe(deps []model.Dependency) []model.Dependency {
	seen := make(map[string]struct{}, len(deps))
	out := deps[:0]
	for _, dep := range deps {
		if _, ok := seen[dep.Name]; ok {
			continue
		}
		seen[dep.Name] = struct{}{}
		out = append(out, dep)
	}
	return out
}

// ParseRequirements parses a requirements.txt file. Lines that cannot be
// parsed are logged and skipped rather than failing the whole file.
func ParseRequirements(path string) ([]model.Dependency, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var deps []model.Dependency
	sc := bufio.NewScanner(file)
	lineNum := 0

	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())

		// Skip blanks, comments, and pip options (-r includes, -e installs).
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		dep, ok := parseRequirementLine(line, path)
		if !ok {
			logger.Debugf("parser: skipping unparseable line %d in %s: %q", lineNum, path, line)
			continue
		}
		deps = append(deps, dep)
	}

	if err := sc.Err(); err != nil {
		return deps, fmt.Errorf("error reading %s: %w", path, err)
	}
	return deps, nil
}

func parseRequirementLine(line, sourceFile string) (model.Dependency, bool) {
	matches := requirementPattern.FindStringSubmatch(line)
	if matches == nil {
		return model.Dependency{}, false
	}

	name := strings.ToLower(matches[1])
	version := extractVersion(matches[2])

	return model.Dependency{
		Name:       name,
		Version:    version,
		Ecosystem:  model.EcosystemPip,
		IsDirect:   true,
		SourceFile: sourceFile,
	}, true
}

// extractVersion pulls a concrete version out of a specifier. Exact pins and
// simple lower bounds yield the version literal; anything more complex is
// kept verbatim, and no specifier at all means unconstrained.
func extractVersion(specifier string) string {
	if specifier == "" {
		return model.WildcardVersion
	}
	for _, op := range []string{"==", ">=", "~="} {
		if strings.HasPrefix(specifier, op) {
			version := strings.TrimPrefix(specifier, op)
			return strings.TrimSpace(strings.Split(version, ",")[0])
		}
	}
	return specifier
}
