package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lineup/internal/shared"
	"github.com/desertthunder/lineup/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive lineup editor.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	svc, cred, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, svc, cred, r.engine, cred.DisplayName, r.logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
