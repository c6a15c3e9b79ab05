package narration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	cfg "github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/google/uuid"
)

var ErrMissingKey = errors.New(cfg.EnvElevenLabsKey + " is not set")

// Narrator turns the script into an audio file and returns its path.
// An empty path means the video stays silent.
type Narrator interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// New picks the provider named in the config. Audio files go to dir.
func New(c cfg.NarrationConfig, dir string) (Narrator, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	switch c.Provider {
	case cfg.NarratorElevenLabs:
		key := os.Getenv(cfg.EnvElevenLabsKey)
		if key == "" {
			return nil, ErrMissingKey
		}
		return &ElevenLabs{
			BaseURL:    elevenLabsURL,
			APIKey:     key,
			VoiceID:    c.VoiceID,
			Model:      c.Model,
			Stability:  c.Stability,
			Similarity: c.Similarity,
			Dir:        dir,
			Client:     client,
		}, nil
	case cfg.NarratorGTTS:
		return NewGTTS(c.Language, dir, client), nil
	case cfg.NarratorNone, "":
		return Silent{}, nil
	default:
		return nil, fmt.Errorf("unknown narration provider %q", c.Provider)
	}
}

// Silent produces no audio
type Silent struct{}

func (Silent) Synthesize(context.Context, string) (string, error) {
	return "", nil
}

// Script is the narration of one comparison
func Script(c diamond.Comparison, site string) string {
	return fmt.Sprintf("Let's compare the size of a %s carat %s diamond to the size of a %s carat %s diamond. "+
		"We'll use a US dime for the size comparison. "+
		"To see more diamond size and shape comparisons, visit %s, "+
		"or check the description for links to high-quality diamond outlets.",
		diamond.FormatCarat(c.A.Carat), c.A.Phrase(),
		diamond.FormatCarat(c.B.Carat), c.B.Phrase(),
		site)
}

// writeAudio creates a new mp3 under dir and fills it with write. The file is
// removed again when writing or closing fails.
func writeAudio(dir string, write func(w io.Writer) error) (path string, err error) {
	path, err = audioPath(dir)
	if err != nil {
		return "", err
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
			path = ""
		}
	}()
	err = write(out)
	return path, err
}

func audioPath(dir string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return filepath.Join(dir, "narration_"+uuid.NewString()+".mp3"), nil
}
