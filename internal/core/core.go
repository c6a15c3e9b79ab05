package core

import (
	"context"
	"fmt"

	"github.com/caratcompare/caratreel/internal/archive"
	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/narration"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/tui"
	"github.com/caratcompare/caratreel/internal/upload"
	"github.com/caratcompare/caratreel/internal/video"
)

type encoder interface {
	Encode(ctx context.Context, pattern, audio, out string) error
}

type Core struct {
	ctx      context.Context
	eventsCh chan tui.Event
	cfg      config.Config
	table    sizing.SizeTable

	encoder    encoder
	narrator   narration.Narrator
	framesRoot string

	// overridable for tests
	newPublisher func(ctx context.Context) (upload.Publisher, error)
	newArchive   func(ctx context.Context) (*archive.Archiver, error)
}

func NewCore(ctx context.Context, eventsCh chan tui.Event, c config.Config, table sizing.SizeTable) *Core {
	core := &Core{
		ctx:        ctx,
		eventsCh:   eventsCh,
		cfg:        c,
		table:      table,
		encoder:    video.NewEncoder(c.Video),
		framesRoot: config.PathFramesDir,
	}
	core.newArchive = core.s3Archive
	return core
}

func (c *Core) Config() config.Config {
	return c.cfg
}

// emit blocks until the ui takes the event or the run is cancelled
func (c *Core) emit(e tui.Event) {
	if c.eventsCh == nil {
		return
	}
	select {
	case c.eventsCh <- e:
	case <-c.ctx.Done():
	}
}

// narration is created on first use so commands that never speak do not
// need an api key
func (c *Core) narration() (narration.Narrator, error) {
	if c.narrator != nil {
		return c.narrator, nil
	}
	n, err := narration.New(c.cfg.Narration, c.framesRoot)
	if err != nil {
		return nil, fmt.Errorf("narration: %w", err)
	}
	c.narrator = n
	return n, nil
}

func (c *Core) s3Archive(ctx context.Context) (*archive.Archiver, error) {
	if c.cfg.Archive.Bucket == "" {
		return nil, nil
	}
	store, err := archive.NewS3(ctx, c.cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return archive.New(store, c.cfg.Archive), nil
}
