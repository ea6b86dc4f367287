package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/grepl/internal/ui/pretty"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of grepl.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			styles := pretty.NewStyles(pretty.IsColorEnabled("auto", out))

			fmt.Fprintln(out, styles.Bold.Render("grepl"), info.Version)
			fmt.Fprintln(out, styles.Dim.Render("commit:"), info.Commit)
			fmt.Fprintln(out, styles.Dim.Render("built:"), info.Date)
		},
	}

	return cmd
}
