package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"irmend/internal/ir"
	"irmend/internal/render"
)

var flagRenderOut string

var renderCmd = &cobra.Command{
	Use:   "render <document.json>",
	Short: "Render a document tree to Markdown",
	Long:  "Render a document tree to Markdown. Blocks that a review marked non-renderable become explicit placeholders.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := ir.Load(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		markdown := render.Markdown(doc)

		if flagRenderOut != "" {
			if err := os.WriteFile(flagRenderOut, []byte(markdown), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			return nil
		}

		fmt.Fprint(os.Stdout, markdown)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&flagRenderOut, "out", "", "Markdown output file path (default: stdout)")
}
