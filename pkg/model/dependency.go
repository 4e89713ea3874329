package model

import (
	"fmt"

	"github.com/package-url/packageurl-go"
)

// Ecosystem identifies the package ecosystem a dependency belongs to.
type Ecosystem string

const (
	EcosystemPip   Ecosystem = "pip"
	EcosystemNpm   Ecosystem = "npm"
	EcosystemMaven Ecosystem = "maven"
)

// WildcardVersion marks a dependency whose version is unconstrained.
const WildcardVersion = "*"

// Dependency represents a single resolved project dependency. Names are
// normalized to lowercase by the parser; scanners treat the record as
// read-only.
type Dependency struct {
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Ecosystem  Ecosystem `json:"ecosystem"`
	IsDirect   bool      `json:"is_direct"`
	SourceFile string    `json:"source_file,omitempty"`
}

// Identifier returns the ecosystem:name@version key that uniquely identifies
// this dependency.
func (d Dependency) Identifier() string {
	return fmt.Sprintf("%s:%s@%s", d.Ecosystem, d.Name, d.Version)
}

// PackageURL renders the dependency as a package URL string, e.g.
// pkg:pypi/requests@2.31.0. Wildcard versions are omitted from the purl.
func (d Dependency) PackageURL() string {
	version := d.Version
	if version == WildcardVersion {
		version = ""
	}
	purl := packageurl.PackageURL{
		Type:    purlType(d.Ecosystem),
		Name:    d.Name,
		Version: version,
	}
	return purl.ToString()
}

func purlType(eco Ecosystem) string {
	switch eco {
	case EcosystemNpm:
		return packageurl.TypeNPM
	case EcosystemMaven:
		return packageurl.TypeMaven
	default:
		return packageurl.TypePyPi
	}
}
