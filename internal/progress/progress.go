package progress

import (
	"context"
	"io"
	"os"

	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/tui"
	"github.com/schollz/progressbar/v3"
)

// Console renders core events as a plain terminal progress bar, for runs
// without the full screen ui
type Console struct {
	out io.Writer
	bar *progressbar.ProgressBar
	// the bar is rebuilt when the description changes mode
	spinning bool
}

func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out}
}

// Run consumes events until the channel closes, a done event arrives or
// ctx ends
func (c *Console) Run(ctx context.Context, events <-chan tui.Event) {
	defer c.finish()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if !c.Handle(e) {
				return
			}
		}
	}
}

// Handle applies one event and reports whether more are expected
func (c *Console) Handle(e tui.Event) bool {
	switch e.Type() {
	case tui.EventSpin:
		c.reset(-1, e.Text())
		_ = c.bar.Add(1)
	case tui.EventBar:
		if c.bar == nil || c.spinning {
			c.reset(100, e.Text())
		}
		c.bar.Describe(e.Text())
		_ = c.bar.Set(int(e.Percent() * 100))
	case tui.EventText:
		c.finish()
		logger.Log.Info(e.Text())
	case tui.EventDone:
		c.finish()
		logger.Log.Info(e.Text())
		return false
	}
	return true
}

func (c *Console) reset(max int, desc string) {
	c.finish()
	c.spinning = max < 0
	c.bar = progressbar.NewOptions(max,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[cyan]/[reset]",
			SaucerHead:    "[magenta]/[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (c *Console) finish() {
	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
	c.bar = nil
}
