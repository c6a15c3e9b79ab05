package core

import (
	"fmt"
	"os"
	"time"

	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/tui"
	"github.com/caratcompare/caratreel/internal/upload"
)

func (c *Core) publisher() (upload.Publisher, error) {
	if c.newPublisher != nil {
		return c.newPublisher(c.ctx)
	}
	return upload.NewYouTube(c.ctx, c.cfg.Upload, os.Stdin, os.Stdout)
}

func (c *Core) uploader() (*upload.Uploader, error) {
	p, err := c.publisher()
	if err != nil {
		return nil, err
	}
	u := upload.NewUploader(p, c.cfg.Output.Dir, c.cfg.Upload.MaxUploads,
		time.Duration(c.cfg.Upload.DelaySeconds)*time.Second)
	return u, nil
}

// UploadAll publishes every video of the output dir that has metadata
func (c *Core) UploadAll() (upload.Summary, error) {
	u, err := c.uploader()
	if err != nil {
		return upload.Summary{}, err
	}
	u.OnProgress = func(done, total int, file string) {
		c.emit(tui.NewEventBar(fmt.Sprintf("Uploading... %d/%d %s", done, total, file), float64(done)/float64(max(total, 1))))
	}
	sum, err := u.UploadAll(c.ctx)
	if err != nil {
		return sum, err
	}
	logger.Scope("core upload").Infof("Upload log saved to: %s", u.LogPath())
	return sum, nil
}

// UploadOne publishes a single video of the output dir by name
func (c *Core) UploadOne(name string) (upload.Entry, error) {
	u, err := c.uploader()
	if err != nil {
		return upload.Entry{}, err
	}
	c.emit(tui.NewEventSpin(fmt.Sprintf("Uploading %s...", name)))
	return u.UploadOne(c.ctx, name)
}

