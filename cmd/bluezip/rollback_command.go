package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/FlashpointProject/bluezip/internal/ledger"
)

func newRollbackCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Undo the most recent build session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			// The session row is recorded before eligibility is known;
			// sessions are never deleted, so an aborted rollback still
			// leaves its ROLLBACK row behind.
			session, err := store.BeginSession(cmd.Context(), ledger.OpRollback)
			if err != nil {
				return err
			}

			con := ctx.terminal()
			target, err := store.RollbackTarget(cmd.Context())
			if err != nil {
				return err
			}
			if target == nil {
				con.Printf("Nothing to rollback.")
				return nil
			}

			con.Printf("Rolling back database to %s", target.Time.Format(time.DateTime))
			if !con.Confirm("Proceed?", false) {
				return nil
			}
			removed, err := store.Rollback(cmd.Context(), target, session)
			if err != nil {
				return err
			}
			con.Successf("Rolled back session %s (%d games removed)", target.ID, removed)
			return nil
		},
	}
}
