package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scraptools/txml/pkg/txml"
	"github.com/scraptools/txml/pkg/xmltree"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <file.xml>",
	Short: "Convert an XML file to binary TXML",
	Long: `Convert an XML file to binary TXML.

An element with no children and a type attribute naming one of the TXML
value types (integer, float, string, bool, long, 2d_point_i, 2d_point_f,
3d_point_f, color, byte_array, size, rectangle, short) is encoded as a
typed value; every other element is a structural node.

Example:
  txml encode models.xml
  txml encode models.xml -o models.txml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		explicit, _ := cmd.Flags().GetString("output")
		overwrite, _ := cmd.Flags().GetBool("force")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		doc, err := xmltree.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		out, err := txml.Encode(doc)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", args[0], err)
		}

		target := outputPath(args[0], explicit, ".txml")
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
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("output", "o", "", "Output file (default: input with .txml extension)")
	encodeCmd.Flags().BoolP("force", "f", false, "Overwrite the output file if it exists")
}
