// All files related functions
package storage

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cfg "github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/google/uuid"
)

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Frames is the scratch dir of one render run
type Frames struct {
	Dir string
}

// NewFrames creates <root>/<run id> so parallel runs never share frames
func NewFrames(root string) (*Frames, error) {
	if root == "" {
		root = cfg.PathFramesDir
	}
	dir := filepath.Join(root, uuid.NewString())
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating frames dir: %w", err)
	}
	return &Frames{Dir: dir}, nil
}

// Pattern is the ffmpeg input pattern of the saved frames
func (f *Frames) Pattern() string {
	return filepath.Join(f.Dir, cfg.FramePattern)
}

func (f *Frames) Path(frameNum int) string {
	return filepath.Join(f.Dir, fmt.Sprintf(cfg.FramePattern, frameNum))
}

func (f *Frames) Save(frameNum int, img *image.NRGBA) (string, error) {
	path := f.Path(frameNum)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create frame file: %w", err)
	}
	if err := encoder.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("cannot encode frame %d: %w", frameNum, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("cannot write frame %d: %w", frameNum, err)
	}
	return path, nil
}

// Scan lists the saved frames in order
func (f *Frames) Scan() ([]string, error) {
	files, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, len(files))
	for _, file := range files {
		if strings.HasPrefix(file.Name(), cfg.FramePrefix) {
			list = append(list, filepath.Join(f.Dir, file.Name()))
		}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no frames in %s", f.Dir)
	}
	sort.Strings(list)
	return list, nil
}

func (f *Frames) Remove() error {
	return os.RemoveAll(f.Dir)
}

// VideoPath is <dir>/<prefix><slug>.mp4
func VideoPath(dir, prefix string, c diamond.Comparison) string {
	return filepath.Join(dir, prefix+c.Slug()+cfg.VideoExt)
}

// MetadataPath is the sidecar json next to a video
func MetadataPath(video string) string {
	return strings.TrimSuffix(video, filepath.Ext(video)) + cfg.MetadataSuffix
}

// ListVideos returns the mp4 files of dir sorted by name
func ListVideos(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var list []string
	for _, file := range files {
		if !file.IsDir() && strings.EqualFold(filepath.Ext(file.Name()), cfg.VideoExt) {
			list = append(list, filepath.Join(dir, file.Name()))
		}
	}
	sort.Strings(list)
	return list, nil
}

func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
