package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func memoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "memory",
		Usage: "Inspect and edit remembered facts",
		Commands: []*cli.Command{
			memoryListCommand(),
			memoryForgetCommand(),
		},
	}
}

func memoryListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List remembered facts, newest first",
		Flags: globalFlags(&cfg),
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

			facts, err := store.ListMemories(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list memories")
			}

			w := c.Root().Writer
			if len(facts) == 0 {
				fmt.Fprintln(w, "No memories.")
				return nil
			}
			for _, f := range facts {
				fmt.Fprintf(w, "%s  %s = %s\n", f.CreatedAt.Format("2006-01-02 15:04:05"), f.Key, f.Value)
			}
			return nil
		},
	}
}

func memoryForgetCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "forget",
		Usage:     "Delete every fact whose key contains the keyword",
		ArgsUsage: "<keyword>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			keyword := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if keyword == "" {
				return goerr.New("keyword is required")
			}

			conf, err := cfg.load()
			if err != nil {
				return err
			}

			store, err := newStore(ctx, &conf.Store)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			deleted, err := store.DeleteMemoryByKeyword(ctx, keyword)
			if err != nil {
				return goerr.Wrap(err, "failed to forget", goerr.V("keyword", keyword))
			}

			fmt.Fprintf(c.Root().Writer, "memory '%s' forgotten (%d removed)\n", strings.ToLower(keyword), deleted)
			return nil
		},
	}
}
