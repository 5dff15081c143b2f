package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "txml",
	Short: "txml - convert between binary TXML and XML",
	Long: `txml converts game data files between the proprietary "txml binv2.0"
binary tree format and plain XML, in both directions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: ~/.config/txml/config.yaml)")
}

// outputPath derives the output filename when -o is not given: the input
// path with its extension replaced.
func outputPath(in, explicit, ext string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}
