package model

// Known permissive licenses.
var permissiveLicenses = map[string]bool{
	"MIT": true, "Apache-2.0": true, "BSD-2-Clause": true, "BSD-3-Clause": true,
	"ISC": true, "0BSD": true, "Unlicense": true, "CC0-1.0": true,
}

// Weak copyleft, file-level only, often enterprise-acceptable.
var weakCopyleftLicenses = map[string]bool{
	"MPL-2.0": true, "LGPL-2.1": true, "LGPL-3.0": true,
}

// Strong copyleft, requires full source disclosure.
var strongCopyleftLicenses = map[string]bool{
	"GPL-2.0": true, "GPL-3.0": true, "AGPL-3.0": true,
}

// LicenseInfo describes the license of a package and its compliance impact.
type LicenseInfo struct {
	SPDXID         string `json:"spdx_id"`
	Name           string `json:"name"`
	IsPermissive   bool   `json:"is_permissive"`
	IsCopyleft     bool   `json:"is_copyleft"`
	IsWeakCopyleft bool   `json:"is_weak_copyleft"`
	ImpactNote     string `json:"impact_note,omitempty"`
}

// LicenseInfoFromSPDX builds a LicenseInfo from an SPDX identifier.
func LicenseInfoFromSPDX(spdxID string) LicenseInfo {
	info := LicenseInfo{
		SPDXID:         spdxID,
		Name:           spdxID,
		IsPermissive:   permissiveLicenses[spdxID],
		IsWeakCopyleft: weakCopyleftLicenses[spdxID],
		IsCopyleft:     strongCopyleftLicenses[spdxID],
	}
	switch {
	case info.IsWeakCopyleft && spdxID == "MPL-2.0":
		info.ImpactNote = "Requires disclosure of modified MPL-covered files only"
	case info.IsWeakCopyleft:
		info.ImpactNote = "Allows linking without source disclosure"
	case info.IsCopyleft:
		info.ImpactNote = "Requires full source disclosure if distributed"
	}
	return info
}

// LicenseIssue pairs a dependency with a license that violates policy.
type LicenseIssue struct {
	Dependency Dependency  `json:"dependency"`
	License    LicenseInfo `json:"license"`
}
