package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/gplay-api/internal/dispatcher"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "methods",
		Short:       "Lists the supported operations",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfig": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range dispatcher.OperationNames() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return fmt.Errorf("write method list: %w", err)
				}
			}
			return nil
		},
	}
}
