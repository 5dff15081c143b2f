package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scraptools/txml/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file with a generated API key",
	Long: `Write a default config file with a generated API key.

Example:
  txml init
  txml init --config=./txml.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) {
			return fmt.Errorf("%s already exists", configPath)
		}

		cfg, err := config.BootstrapConfig(configPath)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote %s\n", configPath)
		cmd.Printf("API key: %s\n", cfg.Server.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
