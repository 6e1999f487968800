package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/NeboLoop/resist-go-sdk"
	"github.com/NeboLoop/resist-go-sdk/internal/cmd/output"
)

func newListenCommand(a *app) *cobra.Command {
	var (
		events []string
		count  int
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Connect to the gateway and print received events",
		Example: `  resist listen
  resist listen --events Message,MessageDelete -o yaml
  resist listen --events Message --count 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}
			f, err := a.formatter()
			if err != nil {
				return err
			}

			logger := a.logger
			client := resist.New(resist.Config{
				Token:  token,
				APIURL: a.v.GetString("api-url"),
				WSURL:  a.v.GetString("ws-url"),
				Logger: &logger,
			})
			defer client.Close()

			p := &printer{w: cmd.OutOrStdout(), f: f, limit: count, done: make(chan struct{})}
			if err := subscribe(client, events, p); err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := client.Connect(ctx); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
			case <-client.Done():
			case <-p.done:
			}
			client.Close()
			client.Wait()
			return client.Err()
		},
	}
	cmd.Flags().StringSliceVarP(&events, "events", "e", nil, "event kinds to print (default all)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after printing this many events")
	return cmd
}

// subscribe registers p on each named event, or on every registered event
// when names is empty.
func subscribe(client *resist.Client, names []string, p *printer) error {
	if len(names) == 0 {
		names = client.Registry().Names()
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := client.On(client.Event(name), p.print); err != nil {
			return fmt.Errorf("subscribe %s: %w", name, err)
		}
	}
	return nil
}

// printer writes each dispatched frame. Handlers run concurrently, so
// writes are serialised.
type printer struct {
	mu      sync.Mutex
	w       io.Writer
	f       output.Formatter
	limit   int
	printed int
	done    chan struct{}
}

func (p *printer) print(_ context.Context, args ...any) error {
	fr, ok := resist.FrameOf(args...)
	if !ok {
		return nil
	}
	v, err := output.Decode(fr.Raw)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.limit > 0 && p.printed >= p.limit {
		return nil
	}
	if err := p.f.Format(p.w, v); err != nil {
		return err
	}
	p.printed++
	if p.limit > 0 && p.printed == p.limit {
		close(p.done)
	}
	return nil
}
