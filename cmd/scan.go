package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/depaudit/depaudit/pkg/analyzer"
	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/model"
	"github.com/depaudit/depaudit/pkg/output"
)

var (
	scanPath     string
	scanFormat   string
	scanOutput   string
	vulnDataPath string
)

// scanCmd represents the scan subcommand
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a full supply chain audit",
	Long: `Parse the project's dependency manifest and run the typosquat,
classification, maturity, exposure, and license scanners. Vulnerability data
can be supplied as a JSON file mapping package identifiers to vulnerability
records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(scanPath)
		if err != nil {
			return err
		}
		if scanFormat != "" {
			cfg.Output.Format = scanFormat
		}

		vulns, err := loadVulnData(vulnDataPath)
		if err != nil {
			return err
		}

		result, err := analyzer.New(cfg).Scan(cmd.Context(), scanPath, vulns)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		return writeResult(cfg, result)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanPath, "path", "p", ".", "Path to project directory to scan")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "", "Output format: text, json, or sarif")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Output file (stdout if empty)")
	scanCmd.Flags().StringVar(&vulnDataPath, "vuln-data", "", "JSON file with vulnerability data per package")
}

func loadConfig(projectPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	return config.FindAndLoadConfig(projectPath)
}

// loadVulnData reads a JSON mapping of package identifier to vulnerability
// records, as produced by an external vulnerability lookup.
func loadVulnData(path string) (map[string][]model.Vulnerability, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vulnerability data: %w", err)
	}
	var vulns map[string][]model.Vulnerability
	if err := json.Unmarshal(data, &vulns); err != nil {
		return nil, fmt.Errorf("failed to parse vulnerability data: %w", err)
	}
	return vulns, nil
}

func writeResult(cfg *config.Config, result *model.ScanResult) error {
	out := os.Stdout
	target := cfg.Output.File
	if scanOutput != "" {
		target = scanOutput
	}
	if target != "" {
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch cfg.Output.Format {
	case "json":
		data, err := output.GenerateJSON(result)
		if err != nil {
			return fmt.Errorf("failed to render JSON report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "sarif":
		data, err := output.GenerateSarif(result)
		if err != nil {
			return fmt.Errorf("failed to render SARIF report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		output.WriteText(out, result)
	}
	return nil
}
