package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"focustrack/internal/config"
	"focustrack/internal/session"
	"focustrack/internal/store"
	"focustrack/internal/tui"
)

const version = "0.1.0"

func main() {
	configFlag := flag.String("config", "", "Path to the config file (default ~/.config/focustrack/config.toml)")
	dataFlag := flag.String("data", "", "Override the session log path from the config")
	versionFlag := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println("focustrack " + version)
		return
	}

	var (
		loadResult *config.LoadResult
		err        error
	)
	if *configFlag != "" {
		loadResult, err = config.LoadFrom(*configFlag)
	} else {
		loadResult, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "focustrack: config error: %v\n", err)
		os.Exit(1)
	}
	cfg := loadResult.Config

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "focustrack: config warning: %s\n", w)
	}

	if *dataFlag != "" {
		cfg.Storage.DataPath = *dataFlag
	}

	recordStore, isPersistent := store.New(cfg.Storage)

	machine := session.NewMachine(recordStore, cfg.Timer.DefaultMinutes*60)

	model := tui.NewModel(cfg,
		tui.WithMachine(machine),
		tui.WithStore(recordStore),
		tui.WithPersistenceFlag(isPersistent),
	)

	// The TUI owns the terminal; stray log output would tear the screen.
	log.SetOutput(io.Discard)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "focustrack: %v\n", err)
		os.Exit(1)
	}
}
