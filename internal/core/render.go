package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/meta"
	"github.com/caratcompare/caratreel/internal/narration"
	"github.com/caratcompare/caratreel/internal/render"
	"github.com/caratcompare/caratreel/internal/storage"
	"github.com/caratcompare/caratreel/internal/text"
	"github.com/caratcompare/caratreel/internal/tui"
	"github.com/caratcompare/caratreel/internal/video"
	"github.com/caratcompare/caratreel/internal/workers"
)

// 1. synthesize the narration and measure it
// 2. build the scene, render frames on the worker pool
// 3. encode frames and audio with ffmpeg
// 4. write the metadata sidecar, archive when a bucket is set
func (c *Core) Render(cmp diamond.Comparison) (string, error) {
	log := logger.Scope("core render").WithField("comparison", cmp.Slug())
	cfg := c.cfg

	narrator, err := c.narration()
	if err != nil {
		return "", err
	}

	c.emit(tui.NewEventSpin(fmt.Sprintf("Narrating %s...", cmp)))
	audio, err := narrator.Synthesize(c.ctx, narration.Script(cmp, cfg.Output.Site))
	if err != nil {
		return "", fmt.Errorf("narration: %w", err)
	}
	if audio != "" {
		defer os.Remove(audio)
	}
	length := 0.0
	if audio != "" {
		length, err = video.AudioDuration(audio)
		if err != nil {
			log.Warnf("unknown narration length, keeping the default timeline: %v", err)
			length = 0
		}
		log.Debugf("narration %.2fs", length)
	}

	for _, d := range []diamond.Diamond{cmp.A, cmp.B} {
		if !diamond.IsKnownShape(d.Shape) {
			log.Warnf("unknown shape %q, drawing the default gem", d.Shape)
		}
	}

	c.emit(tui.NewEventSpin("Preparing scene..."))
	faces, err := text.NewFaces()
	if err != nil {
		return "", err
	}
	defer faces.Close()
	assets, err := render.LoadAssets(cfg, c.table, cmp, faces)
	if err != nil {
		return "", err
	}
	scene, err := render.NewScene(render.NewSettings(cfg, length), cmp, assets, faces)
	if err != nil {
		return "", err
	}

	frames, err := storage.NewFrames(c.framesRoot)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := frames.Remove(); err != nil {
			log.Warnf("Error removing %s: %v", frames.Dir, err)
		}
	}()

	total := scene.FrameCount(cfg.Video.FPS)
	log.Debugf("rendering %d frames on %d workers", total, cfg.Workers)
	c.emit(tui.NewEventBar(fmt.Sprintf("Rendering frames... %d/%d", 0, total), 0))
	worker := workers.NewWorker(c.ctx, scene, frames)
	err = worker.RenderAll(total, cfg.Video.FPS, cfg.Workers, func(done int) {
		c.emit(tui.NewEventBar(fmt.Sprintf("Rendering frames... %d/%d", done, total), float64(done)/float64(total)))
	})
	if err != nil {
		return "", fmt.Errorf("rendering frames: %w", err)
	}
	saved, err := frames.Scan()
	if err != nil {
		return "", err
	}
	if len(saved) != total {
		return "", fmt.Errorf("rendered %d frames, want %d", len(saved), total)
	}

	out := storage.VideoPath(cfg.Output.Dir, cfg.Output.Prefix, cmp)
	if err := os.MkdirAll(cfg.Output.Dir, os.ModePerm); err != nil {
		return "", err
	}
	c.emit(tui.NewEventSpin("Encoding video..."))
	if err := c.encoder.Encode(c.ctx, frames.Pattern(), audio, out); err != nil {
		discard(out)
		return "", fmt.Errorf("encoding %s: %w", out, err)
	}

	md := meta.New(cmp, assets.DimsA, assets.DimsB, cfg.Output.Site)
	if err := md.Save(out); err != nil {
		discard(out)
		return "", fmt.Errorf("writing metadata: %w", err)
	}
	log.Infof("Saved %s", out)

	if err := c.archive(out, storage.MetadataPath(out)); err != nil {
		return out, err
	}
	return out, nil
}

// discard removes a video that did not make it through the pipeline along
// with its sidecar, so a later batch renders it again.
func discard(video string) {
	for _, path := range []string{video, storage.MetadataPath(video)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Log.Warnf("Error removing %s: %v", path, err)
		}
	}
}

func (c *Core) archive(files ...string) error {
	if c.newArchive == nil {
		return nil
	}
	a, err := c.newArchive(c.ctx)
	if err != nil || a == nil {
		return err
	}
	c.emit(tui.NewEventSpin("Archiving..."))
	_, err = a.Archive(c.ctx, files...)
	return err
}
