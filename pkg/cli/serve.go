package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/oceanbase/jarvis-go/pkg/conversation"
	"github.com/oceanbase/jarvis-go/pkg/gateway"
)

func serveCommand() *cli.Command {
	var (
		cfg    config
		addr   string
		nodeID int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Usage:       "Listen address (overrides SERVER_ADDR)",
			Destination: &addr,
		},
		&cli.IntFlag{
			Name:        "node-id",
			Usage:       "Snowflake node ID used for session identifiers",
			Value:       1,
			Sources:     cli.EnvVars("JARVIS_NODE_ID"),
			Destination: &nodeID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web page and the realtime channel",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			conf, err := cfg.load()
			if err != nil {
				return err
			}
			if addr != "" {
				conf.Server.Addr = addr
			}
			if err := conf.Validate(); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := newStore(ctx, &conf.Store)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					slog.Warn("failed to close store", "error", err)
				}
			}()

			model, err := newLLM(&conf.LLM)
			if err != nil {
				return err
			}
			defer func() { _ = model.Close() }()

			speech, err := newSynthesizer(&conf.TTS)
			if err != nil {
				return err
			}

			sessions, err := conversation.NewSessionFactory(nodeID)
			if err != nil {
				return goerr.Wrap(err, "failed to create session factory", goerr.V("node_id", nodeID))
			}

			engine := conversation.NewEngine(store, model, speech)
			server := gateway.NewServer(engine, sessions, &gateway.Config{
				Addr:         conf.Server.Addr,
				HistoryLimit: conf.Server.HistoryLimit,
			}, slog.Default())

			if err := server.ListenAndServe(ctx); err != nil {
				return goerr.Wrap(err, "gateway stopped")
			}
			return nil
		},
	}
}
