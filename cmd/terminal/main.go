package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"crypto-rush/internal/api"
	"crypto-rush/internal/clock"
	"crypto-rush/internal/config"
	"crypto-rush/internal/session/service"
	"crypto-rush/internal/tui"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	serverURL := flag.String("server", "", "backend URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	url := cfg.Client.ServerURL
	if *serverURL != "" {
		url = *serverURL
	}
	client := api.NewClient(url)

	svc := service.NewService(service.DefaultConfig(), clock.Real())
	defer svc.Close()

	model := tui.NewModel(svc, client)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
