package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitError
	}
	logger.InitConsole(cfg.Log.Level)

	kv, _, db, err := store.Open(&cfg.Storage)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open storage: %v\n", err)
		return exitError
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	nav := &terminalNavigator{out: stderr}
	portal, err := services.NewPortal(ctx, &cfg.API, kv, nav)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to start portal: %v\n", err)
		return exitError
	}
	return newCLI(portal, cfg, stdout, stderr).run(ctx, args)
}

// terminalNavigator tells the user where the portal would have sent them.
type terminalNavigator struct {
	out io.Writer
}

func (n *terminalNavigator) Navigate(path string) {
	if path == services.PathLogin {
		fmt.Fprintln(n.out, "Your session has expired. Run `unitrack login` to sign in again.")
		return
	}
	fmt.Fprintf(n.out, "-> %s\n", path)
}
