package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/graphics"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/text"
)

func defaultTimeline() Timeline {
	return NewTimeline(config.DefaultConfig().Timeline, 0)
}

func TestTimelineAt(t *testing.T) {
	tl := defaultTimeline()
	testCases := []struct {
		t     float64
		phase Phase
		sec   float64
	}{
		{0, PhaseLogo, 0},
		{2.5, PhaseLogo, 2.5},
		{3, PhaseIntro, 0},
		{9.5, PhaseIntro, 6.5},
		{10, PhaseComparison, 0},
		{15.75, PhaseComparison, 5.75},
		{16, PhaseOutro, 0},
		{21, PhaseOutro, 5},
	}
	for _, tc := range testCases {
		phase, sec := tl.At(tc.t)
		if phase != tc.phase || math.Abs(sec-tc.sec) > 1e-9 {
			t.Errorf("At(%v) = %v, %v; want %v, %v", tc.t, phase, sec, tc.phase, tc.sec)
		}
	}
}

func TestNewTimelineStretch(t *testing.T) {
	cfg := config.DefaultConfig().Timeline
	testCases := []struct {
		name       string
		narration  float64
		comparison float64
	}{
		{"silent", 0, 6},
		{"short narration", 12, 6},
		{"fits exactly", 20.5, 6},
		{"long narration", 25, 10.5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tl := NewTimeline(cfg, tc.narration)
			if math.Abs(tl.Comparison-tc.comparison) > 1e-9 {
				t.Errorf("comparison = %v, want %v", tl.Comparison, tc.comparison)
			}
			if tc.narration > 0 && tl.Total() < tc.narration+narrationTail-1e-9 {
				t.Errorf("video ends at %v before narration %v", tl.Total(), tc.narration)
			}
		})
	}
}

func TestFrameCount(t *testing.T) {
	tl := defaultTimeline()
	if got := tl.FrameCount(30); got != 630 {
		t.Errorf("FrameCount(30) = %d, want 630", got)
	}
	tl.Comparison += 0.01
	if got := tl.FrameCount(30); got != 631 {
		t.Errorf("FrameCount(30) = %d, want 631", got)
	}
}

func TestLogoAlpha(t *testing.T) {
	testCases := []struct {
		sec, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
		{2.5, 0.5},
		{3, 0},
		{4, 0},
	}
	for _, tc := range testCases {
		if got := logoAlpha(tc.sec, 3); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("logoAlpha(%v) = %v, want %v", tc.sec, got, tc.want)
		}
	}
}

func TestPasteMultipliesAlpha(t *testing.T) {
	dst := solid(4, 4, color.NRGBA{0, 0, 0, 255})
	src := solid(2, 2, color.NRGBA{255, 0, 0, 128})

	paste(dst, Layer{Img: src, At: image.Pt(1, 1)}, 0.5)

	got := dst.NRGBAAt(1, 1)
	// half of a half transparent layer, not a half transparent layer
	if got.R < 60 || got.R > 68 || got.A != 255 {
		t.Errorf("pixel = %v, want red about 64", got)
	}
	if c := dst.NRGBAAt(0, 0); c.R != 0 {
		t.Errorf("pixel outside the layer changed: %v", c)
	}
}

func TestPasteClipsOffscreen(t *testing.T) {
	dst := solid(4, 4, color.NRGBA{0, 0, 0, 255})
	src := solid(3, 3, color.NRGBA{255, 255, 255, 255})

	paste(dst, Layer{Img: src, At: image.Pt(-2, -2)}, 1)

	if c := dst.NRGBAAt(0, 0); c.R != 255 {
		t.Errorf("visible part not drawn: %v", c)
	}
	if c := dst.NRGBAAt(1, 1); c.R != 0 {
		t.Errorf("drawn past the layer: %v", c)
	}
}

func testScene(t *testing.T, layout string) (*Scene, Settings) {
	t.Helper()
	faces, err := text.NewFaces()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(faces.Close)

	c := config.DefaultConfig()
	c.Video.Width, c.Video.Height = 270, 480
	c.Output.Layout = layout
	s := NewSettings(c, 0)
	p := s.Palette

	cmp := diamond.NewComparison(1, "round", 2, "heart")
	a := Assets{
		Dime:  graphics.Placeholder(40),
		GemA:  graphics.Gem("round", 20, p.First),
		GemB:  graphics.Gem("heart", 26, p.Second),
		DimsA: sizing.Dimensions{Width: 6.5, Height: 6.5},
		DimsB: sizing.Dimensions{Width: 8.2, Height: 8.2},
	}
	scene, err := NewScene(s, cmp, a, faces)
	if err != nil {
		t.Fatal(err)
	}
	return scene, s
}

func TestSceneFrames(t *testing.T) {
	scene, s := testScene(t, config.LayoutVertical)
	tl := scene.Timeline()
	gray := color.NRGBA{192, 192, 192, 255}

	testCases := []struct {
		name string
		t    float64
		x, y int
		want color.NRGBA
	}{
		{"logo starts black", 0, 5, 5, s.Palette.Intro},
		{"intro starts dark", tl.Logo, 5, 5, s.Palette.Background},
		{"dime hidden early", tl.Logo + tl.Intro, s.Width / 2, s.Height / 2, s.Palette.Background},
		{"dime shown", tl.Logo + tl.Intro + 2*tl.Fade, s.Width / 2, s.Height / 2, gray},
		{"outro background", tl.Total() - 0.01, 2, 2, s.Palette.Background},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frame := scene.Frame(tc.t)
			if frame.Bounds() != image.Rect(0, 0, s.Width, s.Height) {
				t.Fatalf("bounds = %v", frame.Bounds())
			}
			if got := frame.NRGBAAt(tc.x, tc.y); got != tc.want {
				t.Errorf("pixel(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestSceneFrameIsPure(t *testing.T) {
	scene, _ := testScene(t, config.LayoutVertical)
	at := scene.Timeline().Logo + scene.Timeline().Intro + 1
	a, b := scene.Frame(at), scene.Frame(at)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("frames differ at byte %d", i)
		}
	}
}

func TestSidewaysSlidesIn(t *testing.T) {
	scene, s := testScene(t, config.LayoutSideways)
	tl := scene.Timeline()
	laneA := image.Pt(s.Width/6, s.Height/2)

	start := scene.Frame(tl.Logo + tl.Intro)
	if got := start.NRGBAAt(laneA.X, laneA.Y); got != s.Palette.Background {
		t.Errorf("diamond in place before sliding: %v", got)
	}
	done := scene.Frame(tl.Logo + tl.Intro + tl.Fade)
	if got := done.NRGBAAt(laneA.X, laneA.Y); got == s.Palette.Background {
		t.Errorf("diamond missing after sliding in")
	}
	if got := done.NRGBAAt(s.Width/2, s.Height/2); got != (color.NRGBA{192, 192, 192, 255}) {
		t.Errorf("coin pixel = %v", got)
	}
}

func TestIntroCaption(t *testing.T) {
	cmp := diamond.NewComparison(1, "round", 2.25, "heart")
	want := "Let's compare the size of a 1.0 carat round diamond to a 2.25 carat heart shaped diamond."
	if got := IntroCaption(cmp); got != want {
		t.Errorf("IntroCaption = %q, want %q", got, want)
	}
}
