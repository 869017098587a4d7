package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/arugio/arugio"
	"github.com/arugio/arugio/client"
)

func main() {
	var (
		url = flag.String("url", "ws://"+arugio.DefaultAddr+arugio.WSPath, "Server WebSocket URL")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "arugio-watch needs a terminal")
		os.Exit(1)
	}

	if err := run(*url); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(url string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cl := client.New(client.Config{
		URL:        url,
		MaxElapsed: 30 * time.Second,
	})

	runErr := make(chan error, 1)
	go func() { runErr <- cl.Run(ctx) }()

	p := tea.NewProgram(newWatchModel(cl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// Surface a connection failure that happened while watching; a nil from
	// the upcoming cancel is uninteresting.
	select {
	case err := <-runErr:
		return err
	default:
	}
	return nil
}
