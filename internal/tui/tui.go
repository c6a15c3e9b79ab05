package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	ctx      context.Context
	eventsCh chan Event
}

func New(ctx context.Context, eventsCh chan Event) *TUI {
	return &TUI{ctx, eventsCh}
}

// Run shows the widget until a done event arrives or ctx ends.
// ErrInterrupted is returned when the user pressed ctrl+c.
func (t *TUI) Run() error {
	p := tea.NewProgram(NewWidget(), tea.WithContext(t.ctx))

	// forward events to the widget, Send is safe from any goroutine
	go func() {
		for {
			select {
			case <-t.ctx.Done():
				return
			case event, ok := <-t.eventsCh:
				if !ok {
					p.Quit()
					return
				}
				p.Send(event)
			}
		}
	}()

	_, err := p.Run()
	switch {
	case errors.Is(err, tea.ErrInterrupted):
		return ErrInterrupted
	case errors.Is(err, tea.ErrProgramKilled):
		return nil
	}
	return err
}

var ErrInterrupted = errors.New("interrupted")
