package cmd

import (
	"github.com/spf13/cobra"

	"github.com/NeboLoop/resist-go-sdk/event"
)

func newEventsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List the event kinds the client dispatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.formatter()
			if err != nil {
				return err
			}
			return f.Format(cmd.OutOrStdout(), event.Events.Registry.Names())
		},
	}
}
