package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/logger"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type Encoder struct {
	FPS    int
	Codec  string
	Preset string
	Audio  string
}

func NewEncoder(c config.VideoConfig) *Encoder {
	return &Encoder{
		FPS:    c.FPS,
		Codec:  c.Codec,
		Preset: c.Preset,
		Audio:  c.Audio,
	}
}

// Stream builds the ffmpeg graph: numbered png frames, optionally muxed
// with a narration track
func (e *Encoder) Stream(pattern, audio, out string) *ffmpeg.Stream {
	frames := ffmpeg.Input(pattern, ffmpeg.KwArgs{
		"framerate":    e.FPS,
		"start_number": 1,
	})
	args := ffmpeg.KwArgs{
		"c:v":      e.Codec,
		"pix_fmt":  "yuv420p",
		"preset":   e.Preset,
		"r":        e.FPS,
		"movflags": "+faststart",
	}
	if audio == "" {
		return frames.Output(out, args).OverWriteOutput()
	}
	args["c:a"] = e.Audio
	args["b:a"] = "192k"
	return ffmpeg.Output([]*ffmpeg.Stream{frames, ffmpeg.Input(audio)}, out, args).OverWriteOutput()
}

// Encode runs ffmpeg and kills it when ctx is done
func (e *Encoder) Encode(ctx context.Context, pattern, audio, out string) error {
	cmd := e.Stream(pattern, audio, out).Compile()
	logger.Scope("video").Debugf("Running ffmpeg command: %s", strings.Join(cmd.Args, " "))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(stderr.String()))
		}
		return nil
	}
}

// AudioDuration asks ffprobe for the length of a media file in seconds
func AudioDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probing %s: %w", path, err)
	}
	return parseDuration(out)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseDuration(probe string) (float64, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(probe), &p); err != nil {
		return 0, fmt.Errorf("parsing probe output: %w", err)
	}
	if p.Format.Duration == "" {
		return 0, fmt.Errorf("probe output has no duration")
	}
	return strconv.ParseFloat(p.Format.Duration, 64)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
