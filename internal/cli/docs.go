package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gridboard-cli/internal/docs"
)

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show the embedded user guide",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": docs.Topics()})
			}
			md, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown topic %q (available: %s)",
					args[0], strings.Join(docs.Topics(), ", ")))
			}
			out, err := renderMarkdown(md)
			if err != nil {
				out = md
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
	return cmd
}
