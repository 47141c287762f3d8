package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/oceanbase/jarvis-go/pkg/core"
)

func historyCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of turns to show",
			Value:       core.DefaultHistoryLimit,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "Show the chat transcript, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			conf, err := cfg.load()
			if err != nil {
				return err
			}

			store, err := newStore(ctx, &conf.Store)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			turns, err := store.LoadHistory(ctx, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to load history")
			}

			w := c.Root().Writer
			if len(turns) == 0 {
				fmt.Fprintln(w, "No chat history.")
				return nil
			}
			for _, t := range turns {
				fmt.Fprintf(w, "[%s]\n  you:    %s\n  jarvis: %s\n",
					t.CreatedAt.Format("2006-01-02 15:04:05"), t.UserMessage, t.AssistantReply)
			}
			return nil
		},
	}
}
