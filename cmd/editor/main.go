package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"parallax/internal/config"
	"parallax/internal/pkg/logger"
	"parallax/internal/tui"
	"parallax/pkg/card"
	"parallax/pkg/client"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "fulfillment backend base URL")
	flag.Parse()

	planPath := "plan.md"
	if flag.NArg() > 0 {
		planPath = flag.Arg(0)
	}

	scopeRoot, err := filepath.Abs(filepath.Dir(planPath))
	if err != nil {
		log.Fatalf("resolving scope root: %v", err)
	}

	cfg := config.Load()

	// The TUI owns stdout; logs go to file only.
	appLog := logger.NewFileOnlyLogger("parallax-editor.log")
	defer appLog.Sync()

	ws := card.Workspace{ScopeRoot: scopeRoot, PlanPath: planPath}
	cli := client.New(*baseURL, client.WithTimeout(cfg.EditorSync.RequestTimeout))

	model := tui.NewModel(cfg.EditorSync, ws, cli, appLog)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		appLog.Error("editor", "program exited with error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
