package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/dispatcher"
	"github.com/JakeFAU/gplay-api/internal/httpio"
	"github.com/JakeFAU/gplay-api/internal/server"
)

func newCallCmd() *cobra.Command {
	var rawParams string

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Runs one operation and prints its JSON result",
		Example: `  gplay-api call app --params '{"appId":"com.google.android.apps.translate"}'
  gplay-api call categories`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Context())
			if err != nil {
				return err
			}
			params, err := httpio.DecodeParams([]byte(rawParams))
			if err != nil {
				return fmt.Errorf("--params: %w", err)
			}

			app, err := server.Build(cfg, zap.NewNop())
			if err != nil {
				return fmt.Errorf("build dispatcher: %w", err)
			}
			result, err := app.Dispatcher().Dispatch(cmd.Context(), args[0], params)
			if err != nil {
				var unsupported *dispatcher.UnsupportedOperationError
				if errors.As(err, &unsupported) {
					return fmt.Errorf("%w (%s)", err, unsupported.Hint())
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawParams, "params", "{}", "operation options as a JSON object")
	return cmd
}
