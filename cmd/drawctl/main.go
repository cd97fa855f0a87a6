// Command drawctl plays secret-draw games straight against the shared store,
// the way the browser client does.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := newApp(os.Stdout, os.Stderr)
	cobra.CheckErr(newCmd(a).ExecuteContext(ctx))
}
