package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/termfolio/internal/easter"
)

func newSecretsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secrets",
		Short: "List the hidden features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, line := range easter.Secrets() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
