package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zsol/internal/cli"
	"github.com/zarlcorp/zsol/internal/config"
	"github.com/zarlcorp/zsol/internal/ledger"
	"github.com/zarlcorp/zsol/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zsol"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	if len(os.Args) > 1 {
		runCLI(ctx, os.Args[1])
		_ = app.Close()
		return
	}

	if err := runTUI(); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func runCLI(_ context.Context, cmd string) {
	switch cmd {
	case "version":
		fmt.Printf("zsol %s\n", version)
	case "creators":
		cli.CmdCreators(os.Args[2:])
	case "messages":
		cli.CmdMessages(os.Args[2:])
	case "address":
		cli.CmdAddress()
	default:
		fmt.Fprintf(os.Stderr, "zsol: unknown command %q\n", cmd)
		os.Exit(1)
	}
}

func runTUI() error {
	dataDir := cli.DataDir()
	firstRun := cli.IsFirstRun(dataDir)

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	client := ledger.NewClient(cfg.LedgerConfig())

	m := tui.New(version, dataDir, client, firstRun)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(tui.Model); ok {
		fm.Close()
	}

	return nil
}
