// Command ampvalidator checks AMP stylesheets and documents.
//
//	ampvalidator [flags] <file-or-glob>...
//
// Exit status is 0 when every input passes, 1 when errors were found and
// 2 for usage, config or I/O problems.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
