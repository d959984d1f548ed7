package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/gedcom"
	"github.com/kintreehq/kintree/pkg/graph"
)

// importCommand creates the import command for converting GEDCOM to tree JSON.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "import [family.ged]",
		Short: "Convert a GEDCOM file to tree JSON",
		Long: `Convert a GEDCOM file to tree JSON.

Reads the GEDCOM 5.5 individual and family records (INDI, FAM, NAME,
SEX, BIRT, HUSB, WIFE, CHIL, MARR) and writes the equivalent tree JSON.
Unknown tags are skipped. The resulting file is the native input for
'kintree layout' and 'kintree render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			prog := newProgress(loggerFromContext(cmd.Context()))

			tree, err := gedcom.DecodeFile(input)
			if err != nil {
				return fmt.Errorf("import %s: %w", input, err)
			}
			if name != "" {
				tree.Name = name
			}

			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
			}
			if err := graph.WriteTreeFile(tree, outputPath); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}
			prog.done(fmt.Sprintf("Converted %d persons", len(tree.Persons)))

			printSuccess("Imported %d persons", len(tree.Persons))
			printFile(outputPath)
			printNewline()
			printNextStep("Render", "kintree render "+outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json)")
	cmd.Flags().StringVar(&name, "name", "", "tree name (default: derived from the GEDCOM file)")

	return cmd
}

// exportCommand creates the export command for converting tree JSON to GEDCOM.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [tree.json]",
		Short: "Convert tree JSON to a GEDCOM file",
		Long: `Convert tree JSON to a GEDCOM file.

Families are reconstructed from the tree's parent and spouse links:
each distinct parent set becomes one FAM record, with children sorted
by birth. The output round-trips through 'kintree import'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			tree, err := graph.ReadTreeFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".ged"
			}
			if err := gedcom.EncodeFile(tree, outputPath); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}

			printSuccess("Exported %d persons", len(tree.Persons))
			printFile(outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.ged)")

	return cmd
}
