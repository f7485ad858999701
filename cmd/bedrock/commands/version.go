package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cryptolith/bedrock/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "bedrock %s\n", version.String())
			return nil
		},
	}
}
