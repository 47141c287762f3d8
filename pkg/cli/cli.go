// Package cli implements the jarvis command line.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Error carries the process exit code for main.
type Error struct {
	Code    int
	Message string

	// Err is the failure, including any goerr values attached to it.
	Err error
}

// Run executes the command line described by argv.
func Run(ctx context.Context, argv []string) *Error {
	cmd := rootCommand()

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
			Err:     err,
		}
	}

	return nil
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:  "jarvis",
		Usage: "Voice assistant chat relay",
		Commands: []*cli.Command{
			serveCommand(),
			historyCommand(),
			memoryCommand(),
		},
	}
}
