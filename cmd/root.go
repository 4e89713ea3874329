package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depaudit/depaudit/pkg/logger"
)

// Version is set during build using ldflags
var Version = "dev"

var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "depaudit",
	Short: "Audits project dependencies for supply chain risk",
	Long: `depaudit analyzes a project's third-party dependencies and reports
typosquatting candidates, package maturity, security exposure, license
compliance issues, and the transitive dependency tree.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .depaudit.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
