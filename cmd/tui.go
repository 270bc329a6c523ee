package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive cinema browser, optionally at a path such as /movie/1.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.ApplyLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	model := ui.NewModel(ui.Options{
		Context:  ctx,
		API:      r.client(),
		Store:    store,
		Logger:   shared.WithLogger(fileLogger, "component", "ui"),
		Location: r.location,
		Path:     cmd.StringArg("path"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
