package main

import (
	"context"
	"os"

	"github.com/oceanbase/jarvis-go/pkg/cli"
	"github.com/oceanbase/jarvis-go/pkg/utils/logging"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		logging.Default().Error("command failed", "error", err.Err)
		os.Exit(err.Code)
	}
}
