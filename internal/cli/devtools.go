package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// The devtools commands are the scriptable face of the developer-tools
// overlay: raw access to every stored key, plus the mutation event log.
func newDevtoolsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devtools",
		Short: "Raw store inspection and editing",
	}
	cmd.AddCommand(newDevtoolsKeysCmd(app))
	cmd.AddCommand(newDevtoolsGetCmd(app))
	cmd.AddCommand(newDevtoolsSetCmd(app))
	cmd.AddCommand(newDevtoolsRemoveCmd(app))
	cmd.AddCommand(newDevtoolsEventsCmd(app))
	return cmd
}

func newDevtoolsKeysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List all stored keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			keys, err := s.Keys()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": keys})
		},
	}
	return cmd
}

func newDevtoolsGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the raw stored value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, ok := s.GetRaw(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("key", args[0]))
			}
			// Raw bytes by design: devtools must show corrupt values too.
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	return cmd
}

func newDevtoolsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <json-value>",
		Short: "Write a raw JSON value under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var v any
			if err := json.Unmarshal([]byte(args[1]), &v); err != nil {
				return writeErr(cmd, fmt.Errorf("value is not valid JSON: %w", err))
			}
			if err := s.Set(args[0], v); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{args[0]: v}})
		},
	}
	return cmd
}

func newDevtoolsRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <key>",
		Short: "Delete a key (no-op if absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Remove(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": args[0]}})
		},
	}
	return cmd
}

func newDevtoolsEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the tail of the mutation event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ReadEventsTail(limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to return (0 = all)")
	return cmd
}
