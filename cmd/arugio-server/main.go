package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/arugio/arugio"
	"github.com/arugio/arugio/bot"
	"github.com/arugio/arugio/server"
	"github.com/arugio/arugio/store"
)

func main() {
	var (
		addr     = flag.String("addr", arugio.DefaultAddr, "TCP address to listen on")
		dbPath   = flag.String("db", "", "Path to the world snapshot database (optional)")
		botPath  = flag.String("bot", "", "Path to a WASM steering module (optional)")
		tickRate = flag.Int("tick", 0, "Simulation ticks per second (default 30)")
		minBots  = flag.Int("min-bots", 0, "Minimum bot ball pool size (default 3)")
		verbose  = flag.Bool("v", false, "Verbose (development) logging")
	)
	flag.Parse()

	if err := run(*addr, *dbPath, *botPath, *tickRate, *minBots, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, dbPath, botPath string, tickRate, minBots int, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := server.Config{
		Addr:       addr,
		TickRate:   tickRate,
		MinUnowned: minBots,
		Logger:     logger,
	}

	if dbPath != "" {
		st, err := store.Open(dbPath, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		cfg.Store = st
	}

	if botPath != "" {
		wasmBytes, err := os.ReadFile(botPath)
		if err != nil {
			return fmt.Errorf("read steering module: %w", err)
		}
		driver, err := bot.NewWASMDriver(ctx, wasmBytes, logger)
		if err != nil {
			return err
		}
		defer driver.Close(context.Background())
		cfg.Driver = driver
		logger.Info("steering module loaded", zap.String("path", botPath))
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
