package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and modify ledger settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			settings, err := store.Settings(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(settings))
			for _, s := range settings {
				rows = append(rows, []string{s.Key, s.Value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"KEY", "VALUE"}, rows))
			return nil
		},
	}

	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	return settingsCmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE",
		Short: "Set a ledger setting (KEY+=VALUE appends)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value, appendMode, err := parseAssignment(args[0])
			if err != nil {
				return err
			}

			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			con := ctx.terminal()
			con.Warnf("This command allows modification of internal database attributes. Be careful!")

			old, _, err := store.Setting(cmd.Context(), key)
			if err != nil {
				return err
			}
			if appendMode {
				err = store.AppendSetting(cmd.Context(), key, value)
			} else {
				err = store.SetSetting(cmd.Context(), key, value)
			}
			if err != nil {
				return err
			}
			current, _, err := store.Setting(cmd.Context(), key)
			if err != nil {
				return err
			}
			con.Printf("Set %s: %q -> %q", key, old, current)
			return nil
		},
	}
}

// parseAssignment splits KEY=VALUE, with a trailing + on the key selecting
// append mode. Keys must be predeclared; the store enforces that.
func parseAssignment(arg string) (key, value string, appendMode bool, err error) {
	idx := strings.Index(arg, "=")
	if idx <= 0 {
		return "", "", false, fmt.Errorf("use KEY=VALUE")
	}
	key, value = arg[:idx], arg[idx+1:]
	if strings.HasSuffix(key, "+") {
		appendMode = true
		key = strings.TrimSuffix(key, "+")
	}
	if key == "" {
		return "", "", false, fmt.Errorf("use KEY=VALUE")
	}
	return key, value, appendMode, nil
}
