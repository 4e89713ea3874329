package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/depaudit/depaudit/pkg/model"
)

// WriteText writes the scan result as a sectioned console report.
func WriteText(w io.Writer, result *model.ScanResult) {
	fmt.Fprintf(w, "Supply chain audit: %s\n", result.ProjectPath)
	fmt.Fprintf(w, "Scanned %d dependencies at %s\n\n",
		result.TotalDependencies(), result.ScanTime.Format("2006-01-02 15:04:05"))

	writeTyposquatSection(w, result.TyposquatMatches)
	writeMaturitySection(w, result.MaturityScores, result.LowMaturityPackages)
	writeExposureSection(w, result.SESScores)
	writeLicenseSection(w, result.LicenseIssues)
	writeClassificationSection(w, result.Classifications)

	if !result.HasIssues() {
		fmt.Fprintln(w, "No issues found.")
	}
}

func writeTyposquatSection(w io.Writer, matches []model.TyposquatMatch) {
	if len(matches) == 0 {
		return
	}
	fmt.Fprintf(w, "Potential typosquats (%d)\n", len(matches))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tIMITATES\tSCORE\tMETHOD\tRISK")
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n",
			m.SuspiciousPackage, m.LegitimatePackage, m.SimilarityScore,
			m.DetectionMethod, m.RiskLevel)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeMaturitySection(w io.Writer, scores map[string]model.MaturityScore, low []string) {
	if len(scores) == 0 {
		return
	}
	lowSet := make(map[string]struct{}, len(low))
	for _, name := range low {
		lowSet[name] = struct{}{}
	}

	fmt.Fprintf(w, "Package maturity (%d)\n", len(scores))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tSCORE\tLEVEL\tNOTES")
	for _, name := range sortedKeys(scores) {
		score := scores[name]
		var notes []string
		if errMsg, ok := score.Details["error"]; ok {
			notes = append(notes, fmt.Sprintf("low confidence: %v", errMsg))
		}
		if _, ok := lowSet[name]; ok {
			notes = append(notes, "below minimum score")
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\n",
			name, score.OverallScore, score.MaturityLevel, strings.Join(notes, "; "))
	}
	tw.Flush()
	if len(low) > 0 {
		fmt.Fprintf(w, "%d of %d packages score below the configured minimum\n", len(low), len(scores))
	}
	fmt.Fprintln(w)
}

func writeExposureSection(w io.Writer, scores map[string]model.SecurityExposureScore) {
	if len(scores) == 0 {
		return
	}
	fmt.Fprintf(w, "Security exposure (%d)\n", len(scores))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tSES\tLEVEL\tVULNS\tACTION")
	for _, name := range sortedKeys(scores) {
		score := scores[name]
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\t%s\n",
			name, score.SESScore, score.SESLevel,
			strings.Join(score.Vulnerabilities, ","), score.Action)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeLicenseSection(w io.Writer, issues []model.LicenseIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "License issues (%d)\n", len(issues))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tLICENSE\tIMPACT")
	for _, issue := range issues {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			issue.Dependency.Name, issue.License.SPDXID, issue.License.ImpactNote)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeClassificationSection(w io.Writer, groups map[model.RiskCategory][]model.ClassifiedDependency) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintln(w, "Risk classification")
	for _, category := range []model.RiskCategory{
		model.CategorySecurityRelevant,
		model.CategoryConditionallyRelevant,
		model.CategorySupport,
	} {
		entries := groups[category]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s (%d)\n", category, len(entries))
		for _, entry := range entries {
			fmt.Fprintf(w, "    %s\t%s\n", entry.Dependency.PackageURL(), entry.Classification.Reason)
		}
	}
	fmt.Fprintln(w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
