package workers

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync/atomic"
	"testing"

	"github.com/caratcompare/caratreel/internal/storage"
)

// shade paints the whole frame with a gray level derived from t
type shade struct {
	calls atomic.Int32
}

func (s *shade) Frame(t float64) *image.NRGBA {
	s.calls.Add(1)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	v := uint8(t * 10)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func TestRenderAll(t *testing.T) {
	frames, err := storage.NewFrames(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := &shade{}
	w := NewWorker(context.Background(), src, frames)

	var seen []int
	if err := w.RenderAll(20, 10, 4, func(done int) { seen = append(seen, done) }); err != nil {
		t.Fatal(err)
	}
	if got := src.calls.Load(); got != 20 {
		t.Errorf("rendered %d frames, want 20", got)
	}
	if len(seen) != 20 || seen[19] != 20 {
		t.Errorf("progress = %v", seen)
	}

	list, err := frames.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 20 {
		t.Fatalf("saved %d frames, want 20", len(list))
	}

	// frame 11 is t=1.0
	f, err := os.Open(frames.Path(11))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got.R != 10 {
		t.Errorf("frame 11 shade = %d, want 10", got.R)
	}
}

func TestRenderAllSaveError(t *testing.T) {
	frames, err := storage.NewFrames(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := frames.Remove(); err != nil {
		t.Fatal(err)
	}
	w := NewWorker(context.Background(), &shade{}, frames)
	if err := w.RenderAll(5, 10, 2, nil); err == nil {
		t.Errorf("expected error when the frames dir is gone")
	}
}

func TestRenderAllCancelled(t *testing.T) {
	frames, err := storage.NewFrames(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWorker(ctx, &shade{}, frames)
	if err := w.RenderAll(100, 10, 2, nil); err == nil {
		t.Errorf("expected error for a cancelled context")
	}
}
