// Command authctl manages the local authentication session: it logs in, signs
// up, reports who is logged in and prints the bearer header for scripts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(cmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}
