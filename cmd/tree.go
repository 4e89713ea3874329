package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depaudit/depaudit/pkg/analyzer"
	"github.com/depaudit/depaudit/pkg/scanner"
)

var (
	treePath     string
	treeMaxDepth int
	treeVulnData string
)

// treeCmd represents the tree subcommand
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Resolve and print the transitive dependency tree",
	Long: `Recursively resolve each direct dependency's declared requirements
from the registry and print the resulting tree. Transitive versions are
best-effort: unpinned requirements are shown as wildcards. When vulnerability
data is supplied, paths leading to vulnerable packages are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(treePath)
		if err != nil {
			return err
		}
		if treeMaxDepth > 0 {
			cfg.MaxDepth = treeMaxDepth
		}

		tree, err := analyzer.New(cfg).ResolveTree(cmd.Context(), treePath)
		if err != nil {
			return fmt.Errorf("tree resolution failed: %w", err)
		}

		fmt.Println(tree.RenderASCII())

		stats := tree.Stats()
		fmt.Printf("\n%d direct, %d transitive, %d total packages, max depth %d\n",
			stats.DirectCount, stats.TransitiveCount, stats.TotalPackages, stats.MaxDepth)

		if treeVulnData != "" {
			vulns, err := loadVulnData(treeVulnData)
			if err != nil {
				return err
			}
			printVulnerablePaths(tree, scanner.VulnerablePackageNames(vulns))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringVarP(&treePath, "path", "p", ".", "Path to project directory")
	treeCmd.Flags().IntVarP(&treeMaxDepth, "max-depth", "d", 0, "Maximum tree depth (default from config)")
	treeCmd.Flags().StringVar(&treeVulnData, "vuln-data", "", "JSON file with vulnerability data per package")
}

func printVulnerablePaths(tree *scanner.Tree, vulnerable []string) {
	paths := tree.VulnerablePaths(vulnerable)
	if len(paths) == 0 {
		fmt.Println("No paths to vulnerable packages.")
		return
	}
	fmt.Printf("\nPaths to vulnerable packages (%d):\n", len(paths))
	for _, path := range paths {
		fmt.Printf("  %s\n", joinPath(path))
	}
}

func joinPath(path []string) string {
	out := ""
	for i, hop := range path {
		if i > 0 {
			out += " -> "
		}
		out += hop
	}
	return out
}
