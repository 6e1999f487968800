package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NeboLoop/resist-go-sdk"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

func newSendCommand(a *app) *cobra.Command {
	var replyTo string
	cmd := &cobra.Command{
		Use:     "send <channel> <content>...",
		Short:   "Send a message through the REST API",
		Example: `  resist send 01H8Y6ZQ3C1XJ4V6W3G2E5B7K9 hello world`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}
			f, err := a.formatter()
			if err != nil {
				return err
			}
			api, err := resist.NewAPIClient(token, a.v.GetString("api-url"), nil)
			if err != nil {
				return err
			}

			msg := wire.SendMessage{Content: strings.Join(args[1:], " ")}
			if replyTo != "" {
				msg.Replies = []wire.Reply{{ID: replyTo, Mention: false}}
			}
			sent, err := api.SendMessage(cmd.Context(), args[0], msg)
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}
			return f.Format(cmd.OutOrStdout(), map[string]string{
				"id":      sent.ID,
				"nonce":   sent.Nonce,
				"channel": sent.Channel,
			})
		},
	}
	cmd.Flags().StringVar(&replyTo, "reply", "", "message ID to reply to")
	return cmd
}
