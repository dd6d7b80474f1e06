// Command rdfq inspects, queries and converts RDF files.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/geoknoesis/rdfgraph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
