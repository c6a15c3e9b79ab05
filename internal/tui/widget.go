package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	padding  = 2
	maxWidth = 80
)

var (
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#07F4FF")).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg time.Time

type mode int

const (
	spin mode = iota
	bar
	text
	done
)

type Widget struct {
	mode     mode
	title    string
	spinner  spinner.Model
	progress progress.Model
	percent  float64
}

func NewWidget() *Widget {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Widget{
		spinner:  s,
		progress: progress.New(progress.WithGradient("#07F4FF", "#FA06FF")),
		percent:  0,
	}
}

func (w *Widget) apply(e Event) {
	w.title = e.Text()
	switch e.Type() {
	case EventSpin:
		w.mode = spin
	case EventBar:
		w.mode = bar
		w.percent = e.Percent()
	case EventText:
		w.mode = text
	case EventDone:
		w.mode = done
	}
}

func (w *Widget) Init() tea.Cmd {
	return tea.Batch(tickCmd(), w.spinner.Tick)
}

func (w *Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Event:
		w.apply(msg)
		if w.mode == done {
			return w, tea.Quit
		}
		return w, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			return w, tea.Interrupt
		}
		return w, nil

	case tea.WindowSizeMsg:
		w.progress.Width = msg.Width - padding*2 - 4
		if w.progress.Width > maxWidth {
			w.progress.Width = maxWidth
		}
		return w, nil

	case tickMsg:
		cmd := w.progress.SetPercent(w.percent)
		return w, tea.Batch(tickCmd(), cmd)

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := w.progress.Update(msg)
		w.progress = progressModel.(progress.Model)
		return w, cmd

	default:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}
}

func (w *Widget) View() string {
	pad := strings.Repeat(" ", padding)

	switch w.mode {
	case text:
		return fmt.Sprintf("\n\n%s%s\n\n", pad, w.title)
	case spin:
		return fmt.Sprintf("\n\n%s%s %s\n\n%s%s\n", pad, w.spinner.View(), w.title, pad, helpStyle.Render("esc to cancel"))
	case bar:
		return "\n" +
			pad + w.title + "\n\n" +
			pad + w.progress.ViewAs(w.percent) + "\n"
	case done:
		return fmt.Sprintf("\n%s%s\n\n", pad, doneStyle.Render(w.title))
	}
	return ""
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
