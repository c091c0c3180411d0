package main

import (
	"fmt"
	"os"

	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/tui"
)

func main() {
	// keep stdout for results; only warnings reach stderr
	logger.SetDefault(logger.New("development", "warn"))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "echowrite:", tui.ErrorText(err))
		os.Exit(1)
	}
}
