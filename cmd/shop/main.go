package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/cartsync/internal/client/cart"
	"github.com/example/cartsync/internal/client/config"
	"github.com/example/cartsync/internal/client/localstore"
	"github.com/example/cartsync/internal/client/oracle"
	"github.com/example/cartsync/internal/client/session"
	"github.com/example/cartsync/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultPath(), "config file path")
	serverURL := flag.String("server", "", "override server url")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shop: %v\n", err)
		return 1
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	client, err := oracle.NewClient(cfg.ServerURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shop: %v\n", err)
		return 1
	}

	store, err := localstore.NewFileStore(cfg.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shop: %v\n", err)
		return 1
	}

	sess := session.NewContainer(client, store)
	cartContainer := cart.NewContainer(client, store, sess, cfg.DebounceWindow)
	defer cartContainer.Close()

	model := tui.New(tui.Options{
		Context: ctx,
		Oracle:  client,
		Session: sess,
		Cart:    cartContainer,
	})

	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shop: %v\n", err)
		return 1
	}
	return 0
}
