package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/depaudit/depaudit/pkg/model"
)

// writeRequirements writes a requirements.txt into dir and returns its path.
func writeRequirements(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "requirements.txt")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestParseRequirements tests the supported requirement line shapes.
func TestParseRequirements(t *testing.T) {
	content := `# production dependencies
requests==2.31.0
Flask>=2.0
numpy
torch~=2.1.0
pkg[security]==1.0 ; python_version < "3.9"
pydantic>=2.0,<3.0

-r dev-requirements.txt
-e ./local-package
urllib3==2.0.7  # pinned for CVE-2023-45803
`
	path := writeRequirements(t, t.TempDir(), content)

	deps, err := ParseRequirements(path)
	assert.NoError(t, err)
	assert.Len(t, deps, 7)

	expected := []struct {
		name    string
		version string
	}{
		{"requests", "2.31.0"},
		{"flask", "2.0"},
		{"numpy", model.WildcardVersion},
		{"torch", "2.1.0"},
		{"pkg", "1.0"},
		{"pydantic", "2.0"},
		{"urllib3", "2.0.7"},
	}
	for i, want := range expected {
		assert.Equal(t, want.name, deps[i].Name, "entry %d", i)
		assert.Equal(t, want.version, deps[i].Version, "entry %d", i)
		assert.Equal(t, model.EcosystemPip, deps[i].Ecosystem)
		assert.True(t, deps[i].IsDirect)
		assert.Equal(t, path, deps[i].SourceFile)
	}
}

// TestParseRequirementsSkipsUnparseable tests that malformed lines are
// skipped without failing the file.
func TestParseRequirementsSkipsUnparseable(t *testing.T) {
	content := `requests==2.31.0
???not-a-package???
flask
`
	path := writeRequirements(t, t.TempDir(), content)

	deps, err := ParseRequirements(path)
	assert.NoError(t, err)
	assert.Len(t, deps, 2)
	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, "flask", deps[1].Name)
}

// TestParseProject tests manifest discovery in a project directory.
func TestParseProject(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "requests==2.31.0\n")

	deps, err := ParseProject(dir)
	assert.NoError(t, err)
	assert.Len(t, deps, 1)
	assert.Equal(t, "requests", deps[0].Name)
}

// TestParseProjectMissingManifest tests the error when no supported
// manifest exists.
func TestParseProjectMissingManifest(t *testing.T) {
	_, err := ParseProject(t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no dependency manifest")
}

// TestParsePyproject tests PEP 621 dependency extraction, including entries
// with whitespace around operators and extras markers.
func TestParsePyproject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	content := `[project]
name = "demo"
dependencies = [
    "requests >= 2.31.0",
    "flask==3.0.0",
    "pkg[security] == 1.0 ; python_version < '3.9'",
    "numpy",
]

[build-system]
requires = ["setuptools"]
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	deps, err := ParsePyproject(path)
	assert.NoError(t, err)
	assert.Len(t, deps, 4)
	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, "2.31.0", deps[0].Version)
	assert.Equal(t, "flask", deps[1].Name)
	assert.Equal(t, "pkg", deps[2].Name)
	assert.Equal(t, "1.0", deps[2].Version)
	assert.Equal(t, model.WildcardVersion, deps[3].Version)
	assert.Equal(t, path, deps[0].SourceFile)
}

// TestParsePyprojectInvalid tests that malformed TOML is an error.
func TestParsePyprojectInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	assert.NoError(t, os.WriteFile(path, []byte("[project\nbroken"), 0o644))

	_, err := ParsePyproject(path)
	assert.Error(t, err)
}

// TestParseProjectMergesManifests tests that all manifests are read and the
// first declaration of a duplicate package wins.
func TestParseProjectMergesManifests(t *testing.T) {
	dir := t.TempDir()
	writeRequirements(t, dir, "requests==2.31.0\n")
	assert.NoError(t, os.WriteFile(
		filepath.Join(dir, "requirements-dev.txt"), []byte("pytest==8.0.0\n"), 0o644))
	assert.NoError(t, os.WriteFile(
		filepath.Join(dir, "pyproject.toml"),
		[]byte("[project]\ndependencies = [\"requests==2.30.0\", \"numpy\"]\n"), 0o644))

	deps, err := ParseProject(dir)
	assert.NoError(t, err)
	assert.Len(t, deps, 3)
	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, "2.31.0", deps[0].Version, "requirements.txt pin wins over pyproject duplicate")
	assert.Equal(t, "pytest", deps[1].Name)
	assert.Equal(t, "numpy", deps[2].Name)
}

// TestExtractVersion tests specifier-to-version extraction.
func TestExtractVersion(t *testing.T) {
	tests := []struct {
		specifier string
		expected  string
	}{
		{"", model.WildcardVersion},
		{"==2.31.0", "2.31.0"},
		{">=2.0", "2.0"},
		{"~=2.1.0", "2.1.0"},
		{">=2.0,<3.0", "2.0"},
		{"!=1.9.0", "!=1.9.0"},
		{"<3", "<3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractVersion(tt.specifier), "specifier %q", tt.specifier)
	}
}
