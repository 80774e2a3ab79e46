package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FlashpointProject/bluezip/internal/flashpoint"
)

func newHooksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "hooks {add|remove}",
		Short:     "Maintain launcher Mount hooks for packaged games",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"add", "remove"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fp, err := flashpoint.Open(cfg.Flashpoint.DatabasePath)
			if err != nil {
				return err
			}
			defer fp.Close()

			con := ctx.terminal()
			switch args[0] {
			case "add":
				con.Printf("Adding Mount hooks, please wait..")
				added, err := flashpoint.AddMountHooks(cmd.Context(), fp, store)
				if err != nil {
					return err
				}
				con.Successf("Added %d Mount hooks", added)
				return nil
			case "remove":
				con.Printf("Removing Mount hooks, please wait..")
				return flashpoint.RemoveMountHooks(cmd.Context(), fp)
			default:
				return fmt.Errorf("unknown hooks operation %q", args[0])
			}
		},
	}
}
