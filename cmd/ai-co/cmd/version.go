package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "ai-co %s\n", appVersion)
			_, _ = fmt.Fprintf(w, "  commit: %s\n", appCommit)
			_, _ = fmt.Fprintf(w, "  built:  %s\n", appDate)
		},
	}
}
