package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"checkpoint/internal/client/api"
	"checkpoint/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

var logFile *os.File

// openLog sends the standard logger to the workspace log folder; stderr
// belongs to the terminal UI.
func openLog(cfg *config.Config) {
	if logFile != nil {
		return
	}
	if err := os.MkdirAll(cfg.LogsDir(), 0755); err != nil {
		return
	}
	f, err := tea.LogToFile(filepath.Join(cfg.LogsDir(), "checkpoint.log"), "checkpoint")
	if err != nil {
		return
	}
	logFile = f
}

func main() {
	saved, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cfg := saved
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	log.SetOutput(io.Discard)
	if saved != nil {
		openLog(cfg)
	}

	client := api.NewClient(cfg.BackendURL, cfg.Timeout())
	p := tea.NewProgram(newModel(cfg, saved != nil, client))
	final, err := p.Run()
	if m, ok := final.(model); ok {
		m.page.unmount()
	}
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Printf("Error running CheckPoint: %v\n", err)
		os.Exit(1)
	}
}
