package core

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caratcompare/caratreel/internal/archive"
	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/meta"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/storage"
	"github.com/caratcompare/caratreel/internal/tui"
	"github.com/caratcompare/caratreel/internal/upload"
)

// fakeEncoder checks the frames and writes a stand in video. A failing
// encode leaves a truncated file behind like an interrupted ffmpeg.
type fakeEncoder struct {
	frames []int
	fail   map[string]bool
}

func (f *fakeEncoder) Encode(ctx context.Context, pattern, audio, out string) error {
	if f.fail[filepath.Base(out)] {
		if err := os.WriteFile(out, []byte("mp"), 0o644); err != nil {
			return err
		}
		return errors.New("ffmpeg exploded")
	}
	files, err := filepath.Glob(filepath.Join(filepath.Dir(pattern), "out_*.png"))
	if err != nil {
		return err
	}
	f.frames = append(f.frames, len(files))
	return os.WriteFile(out, []byte("mp4"), 0o644)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	c := config.DefaultConfig()
	c.Video.Width, c.Video.Height, c.Video.FPS = 108, 192, 2
	c.Timeline = config.TimelineConfig{Logo: 0.5, Intro: 0.5, Comparison: 1, Outro: 0.5, Fade: 0.5}
	c.Sizes.ReferencePx = 28
	c.Narration.Provider = config.NarratorNone
	c.Assets.Dime = ""
	c.Output.Dir = t.TempDir()
	c.Workers = 2
	return c
}

func testCore(t *testing.T, c config.Config) (*Core, *fakeEncoder) {
	t.Helper()
	events := make(chan tui.Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-events:
			}
		}
	}()

	core := NewCore(ctx, events, c, sizing.DefaultTable())
	enc := &fakeEncoder{}
	core.encoder = enc
	core.framesRoot = t.TempDir()
	return core, enc
}

func TestRender(t *testing.T) {
	c := testConfig(t)
	core, enc := testCore(t, c)
	cmp := diamond.NewComparison(1, "round", 1.5, "oval")

	out, err := core.Render(cmp)
	if err != nil {
		t.Fatal(err)
	}
	if out != filepath.Join(c.Output.Dir, "final_1.0-round-vs-1.5-oval.mp4") {
		t.Errorf("out = %s", out)
	}
	// 2.5s at 2 fps
	if len(enc.frames) != 1 || enc.frames[0] != 5 {
		t.Errorf("encoded frames = %v, want [5]", enc.frames)
	}
	m, err := meta.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(m.Title, "1.0ct Round vs 1.5ct Oval") {
		t.Errorf("title = %q", m.Title)
	}

	// scratch frames are gone
	left, err := os.ReadDir(core.framesRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d scratch entries left", len(left))
	}
}

func TestRenderArchives(t *testing.T) {
	core, _ := testCore(t, testConfig(t))
	store := &memStore{objects: map[string]bool{}}
	core.newArchive = func(ctx context.Context) (*archive.Archiver, error) {
		return archive.New(store, config.ArchiveConfig{Bucket: "reels"}), nil
	}
	if _, err := core.Render(diamond.NewComparison(1, "round", 2, "round")); err != nil {
		t.Fatal(err)
	}
	if !store.objects["final_1.0-round-vs-2.0-round.mp4"] || !store.objects["final_1.0-round-vs-2.0-round_metadata.json"] {
		t.Errorf("archived %v", store.objects)
	}
}

func TestRenderMissingKey(t *testing.T) {
	c := testConfig(t)
	c.Narration.Provider = config.NarratorElevenLabs
	t.Setenv(config.EnvElevenLabsKey, "")
	core, enc := testCore(t, c)
	if _, err := core.Render(diamond.NewComparison(1, "round", 2, "round")); err == nil {
		t.Errorf("expected error without an api key")
	}
	if len(enc.frames) != 0 {
		t.Errorf("encoded without narration")
	}
}

func TestBatch(t *testing.T) {
	c := testConfig(t)
	core, enc := testCore(t, c)
	list := []diamond.Comparison{
		diamond.NewComparison(0.5, "round", 1, "round"),
		diamond.NewComparison(1, "round", 1, "oval"),
		diamond.NewComparison(1, "pear", 1.5, "pear"),
	}
	existing := storage.VideoPath(c.Output.Dir, c.Output.Prefix, list[0])
	if err := os.WriteFile(existing, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	enc.fail = map[string]bool{filepath.Base(storage.VideoPath(c.Output.Dir, c.Output.Prefix, list[1])): true}

	res, err := core.Batch(list)
	if err == nil {
		t.Errorf("expected an error reporting the failed comparison")
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != existing {
		t.Errorf("skipped = %v", res.Skipped)
	}
	if _, ok := res.Failed[list[1].Slug()]; !ok || len(res.Failed) != 1 {
		t.Errorf("failed = %v", res.Failed)
	}
	if len(res.Rendered) != 1 || !strings.Contains(res.Rendered[0], "pear") {
		t.Errorf("rendered = %v", res.Rendered)
	}
	failed := storage.VideoPath(c.Output.Dir, c.Output.Prefix, list[1])
	if storage.Exists(failed) {
		t.Errorf("partial video %s left behind", failed)
	}

	// the failed comparison is rendered on the next run
	enc.fail = nil
	res, err = core.Batch(list)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rendered) != 1 || res.Rendered[0] != failed {
		t.Errorf("second run rendered = %v, want [%s]", res.Rendered, failed)
	}
	if len(res.Skipped) != 2 {
		t.Errorf("second run skipped = %v", res.Skipped)
	}
}

func TestComparisons(t *testing.T) {
	c := testConfig(t)
	core, _ := testCore(t, c)
	list, err := core.Comparisons()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 20 {
		t.Errorf("pilot list has %d comparisons, want 20", len(list))
	}

	c.Batch.Comparisons = []string{"1.0-round-vs-2.25-heart"}
	core, _ = testCore(t, c)
	list, err = core.Comparisons()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0] != diamond.NewComparison(1, "round", 2.25, "heart") {
		t.Errorf("list = %v", list)
	}

	c.Batch.Comparisons = []string{"big-vs-small"}
	core, _ = testCore(t, c)
	if _, err := core.Comparisons(); err == nil {
		t.Errorf("expected error for a bad slug")
	}
}

func TestSize(t *testing.T) {
	core, _ := testCore(t, config.DefaultConfig())
	info := core.Size(diamond.New(1, "round"))
	if info.Dims.Width != 6.5 || info.WidthPx != sizing.MMToPx(6.5, config.DimeMM, config.DimePx) {
		t.Errorf("info = %+v", info)
	}
	fallback := core.Size(diamond.New(1, "trillion"))
	if fallback.Dims != (sizing.Dimensions{Width: sizing.FallbackMM, Height: sizing.FallbackMM}) {
		t.Errorf("fallback = %+v", fallback)
	}
}

type stubPublisher struct{ n int }

func (s *stubPublisher) Publish(ctx context.Context, path string, m meta.Metadata) (string, error) {
	s.n++
	return "vid", nil
}

func TestUploadAll(t *testing.T) {
	c := testConfig(t)
	c.Upload.DelaySeconds = 0
	core, _ := testCore(t, c)
	pub := &stubPublisher{}
	core.newPublisher = func(ctx context.Context) (upload.Publisher, error) { return pub, nil }

	if _, err := core.Render(diamond.NewComparison(1, "round", 2, "round")); err != nil {
		t.Fatal(err)
	}
	sum, err := core.UploadAll()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Uploaded != 1 || pub.n != 1 {
		t.Errorf("summary = %+v", sum)
	}

	entry, err := core.UploadOne("final_1.0-round-vs-2.0-round")
	if err != nil {
		t.Fatal(err)
	}
	if entry.VideoID != "vid" {
		t.Errorf("entry = %+v", entry)
	}
}

type memStore struct {
	objects map[string]bool
}

func (m *memStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	m.objects[key] = true
	return nil
}

func (m *memStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	return m.objects[key], nil
}
