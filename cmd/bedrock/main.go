// Command bedrock inspects and exercises the platform layer: locked memory,
// CPU capability probing, clock sources, and terminal echo control.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptolith/bedrock/cmd/bedrock/commands"
	"github.com/cryptolith/bedrock/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "bedrock",
		Short: "OS abstraction layer for cryptographic workloads",
		Long: `bedrock is the host-facing layer a cryptographic library sits on:
mlock-backed allocations that never reach a core dump, CPU feature
detection that survives faulting probes, clock sources with graceful
fallbacks, and echo-free passphrase entry.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.NewReportCommand(),
		commands.NewSelftestCommand(),
		commands.NewPromptCommand(),
		commands.NewVersionCommand(),
	)

	return rootCmd.Execute()
}
