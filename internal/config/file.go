package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is loaded once and passed by value, nothing mutates it after Load
type Config struct {
	Video     VideoConfig     `yaml:"video"`
	Palette   PaletteConfig   `yaml:"palette"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Sizes     SizesConfig     `yaml:"sizes"`
	Assets    AssetsConfig    `yaml:"assets"`
	Narration NarrationConfig `yaml:"narration"`
	Output    OutputConfig    `yaml:"output"`
	Upload    UploadConfig    `yaml:"upload"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Batch     BatchConfig     `yaml:"batch"`
	Workers   int             `yaml:"workers"`
}

type VideoConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Codec  string `yaml:"codec"`
	Preset string `yaml:"preset"`
	Audio  string `yaml:"audio_codec"`
}

type PaletteConfig struct {
	First      string `yaml:"first"`
	Second     string `yaml:"second"`
	Background string `yaml:"background"`
	Intro      string `yaml:"intro"`
	Text       string `yaml:"text"`
}

// all values are seconds
type TimelineConfig struct {
	Logo       float64 `yaml:"logo"`
	Intro      float64 `yaml:"intro"`
	Comparison float64 `yaml:"comparison"`
	Outro      float64 `yaml:"outro"`
	Fade       float64 `yaml:"fade"`
}

type SizesConfig struct {
	Table       string  `yaml:"table"`
	ReferenceMM float64 `yaml:"reference_mm"`
	ReferencePx int     `yaml:"reference_px"`
}

type AssetsConfig struct {
	Dime        string `yaml:"dime"`
	Logo        string `yaml:"logo"`
	DiamondsDir string `yaml:"diamonds_dir"`
	SVGDir      string `yaml:"svg_dir"`
	PNGDir      string `yaml:"png_dir"`
}

type NarrationConfig struct {
	Provider   string  `yaml:"provider"`
	VoiceID    string  `yaml:"voice_id"`
	Model      string  `yaml:"model"`
	Stability  float64 `yaml:"stability"`
	Similarity float64 `yaml:"similarity"`
	Language   string  `yaml:"language"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Layout string `yaml:"layout"`
	Site   string `yaml:"site"`
}

type UploadConfig struct {
	ClientSecrets  string `yaml:"client_secrets"`
	TokenFile      string `yaml:"token_file"`
	ServiceAccount string `yaml:"service_account"`
	Privacy        string `yaml:"privacy"`
	MaxUploads     int    `yaml:"max_uploads"`
	DelaySeconds   int    `yaml:"delay_seconds"`
}

type ArchiveConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type BatchConfig struct {
	Comparisons []string `yaml:"comparisons"`
}

func DefaultConfig() Config {
	return Config{
		Video: VideoConfig{
			Width:  FrameWidth,
			Height: FrameHeight,
			FPS:    FrameRate,
			Codec:  "libx264",
			Preset: "medium",
			Audio:  "aac",
		},
		Palette: PaletteConfig{
			First:      "#07F4FF",
			Second:     "#FA06FF",
			Background: "#252525",
			Intro:      "#000000",
			Text:       "#FFFFFF",
		},
		Timeline: TimelineConfig{
			Logo:       3,
			Intro:      7,
			Comparison: 6,
			Outro:      5,
			Fade:       1.5,
		},
		Sizes: SizesConfig{
			ReferenceMM: DimeMM,
			ReferencePx: DimePx,
		},
		Assets: AssetsConfig{
			Dime:   "us-dime.png",
			SVGDir: "public/svg",
			PNGDir: "assets/diamonds_png",
		},
		Narration: NarrationConfig{
			Provider:   NarratorElevenLabs,
			VoiceID:    DefaultVoiceID,
			Model:      DefaultTTSModel,
			Stability:  0.6,
			Similarity: 0.8,
			Language:   "en",
		},
		Output: OutputConfig{
			Dir:    PathOutputDir,
			Prefix: "final_",
			Layout: LayoutVertical,
			Site:   DefaultWebsite,
		},
		Upload: UploadConfig{
			ClientSecrets: "client_secrets.json",
			TokenFile:     "token.json",
			Privacy:       "public",
			MaxUploads:    UploadMaxVideos,
			DelaySeconds:  UploadDelaySeconds,
		},
		Workers: runtime.NumCPU(),
	}
}

// Load reads a yaml file over the defaults.
// A missing file at the default path is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = PathConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("video size must be positive, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Video.FPS)
	}
	if c.Sizes.ReferenceMM <= 0 || c.Sizes.ReferencePx <= 0 {
		return fmt.Errorf("reference size must be positive, got %.2fmm/%dpx", c.Sizes.ReferenceMM, c.Sizes.ReferencePx)
	}
	t := c.Timeline
	if t.Logo < 0 || t.Intro < 0 || t.Comparison <= 0 || t.Outro < 0 || t.Fade <= 0 {
		return fmt.Errorf("timeline durations must not be negative")
	}
	switch c.Output.Layout {
	case LayoutVertical, LayoutSideways:
	default:
		return fmt.Errorf("unknown layout %q", c.Output.Layout)
	}
	switch c.Narration.Provider {
	case NarratorElevenLabs, NarratorGTTS, NarratorNone:
	default:
		return fmt.Errorf("unknown narration provider %q", c.Narration.Provider)
	}
	for _, hex := range []string{c.Palette.First, c.Palette.Second, c.Palette.Background, c.Palette.Intro, c.Palette.Text} {
		if _, err := ParseHex(hex); err != nil {
			return err
		}
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// ParseHex converts "#RRGGBB" into an opaque color
func ParseHex(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("bad color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", hex, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustHex is for palette values already checked by Validate
func MustHex(hex string) color.NRGBA {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
