package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	_ "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/mysql"
	_ "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/postgres"
	_ "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/sqlite"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// embeddedConfig is the default application configuration. Values may reference ${VAR}
// placeholders and are overridden by WINDCAPEX_* environment variables and command-line flags.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Warnf("Received signal '%v'. Stopping after the current source...", sig)
		cancel()
	}()

	os.Exit(execute(ctx, os.Args[1:]))
}
