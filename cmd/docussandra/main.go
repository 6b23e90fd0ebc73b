package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
)

var longHelp = strings.TrimSpace(`
Manage the databases, tables, indexes and documents of a Docussandra server.

Resources are addressed by slash-separated paths:
  database   <db>
  table      <db>/<table>
  index      <db>/<table>/<index>
  document   <db>/<table>/<uuid>

Configuration is read from flags, then DOCUSSANDRA_* environment variables,
then the config file (default: $HOME/.docussandra/config.toml).
`)

var exampleUsage = strings.TrimSpace(`
  docussandra database create --data '{"name":"shop"}'
  docussandra table create shop --data '{"name":"products"}'
  docussandra document create shop/products --data @product.json
  docussandra document list shop/products --limit 20
  docussandra query shop products --where "sku = 'A-1'"
  docussandra wait --max-elapsed 2m
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func version() string {
	return fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH)
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	defer a.close()

	if err := newRootCommand(a).ExecuteContext(ctx); err != nil {
		a.log.Error().Err(err).Msg("docussandra")
		return 1
	}
	return 0
}
