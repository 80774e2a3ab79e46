package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FlashpointProject/bluezip/internal/config"
	"github.com/FlashpointProject/bluezip/internal/datfile"
)

func newDatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dat FILE",
		Short: "Export the revision ledger as a Logiqx DAT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			target, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve dat path: %w", err)
			}
			if err := datfile.ExportFile(cmd.Context(), store, target); err != nil {
				return err
			}
			ctx.terminal().Successf("Wrote %s", target)
			return nil
		},
	}
}
