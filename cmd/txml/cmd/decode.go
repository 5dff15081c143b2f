package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scraptools/txml/pkg/txml"
	"github.com/scraptools/txml/pkg/xmltree"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file.txml>",
	Short: "Convert a binary TXML file to XML",
	Long: `Convert a binary TXML file to XML.

Example:
  txml decode models.txml
  txml decode models.txml -o models.xml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		explicit, _ := cmd.Flags().GetString("output")
		indent, _ := cmd.Flags().GetInt("indent")
		overwrite, _ := cmd.Flags().GetBool("force")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		doc, err := txml.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", args[0], err)
		}

		out, err := xmltree.Marshal(doc, indent)
		if err != nil {
			return fmt.Errorf("failed to render XML: %w", err)
		}

		target := outputPath(args[0], explicit, ".xml")
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", target)
			}
		}
		if err := os.WriteFile(target, out, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		cmd.Printf("Wrote %s (%d bytes)\n", target, len(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("output", "o", "", "Output file (default: input with .xml extension)")
	decodeCmd.Flags().Int("indent", 2, "Spaces per XML indent level")
	decodeCmd.Flags().BoolP("force", "f", false, "Overwrite the output file if it exists")
}
