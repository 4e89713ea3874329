package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/depaudit/depaudit/pkg/config"
)

var (
	initPath  string
	initForce bool
)

// initCmd represents the init subcommand
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a .depaudit.yaml with the default settings into the project
directory, as a starting point for customization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeDefaultConfig(initPath, initForce)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initPath, "path", "p", ".", "Path to project directory")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

// writeDefaultConfig writes the default configuration into dir, refusing to
// overwrite an existing file unless force is set.
func writeDefaultConfig(dir string, force bool) (string, error) {
	path := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().SaveConfig(path); err != nil {
		return "", err
	}
	return path, nil
}
