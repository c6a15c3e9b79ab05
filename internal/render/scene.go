package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/graphics"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/text"
)

const referenceName = "US DIME"

// Assets are the sized images of one comparison
type Assets struct {
	Logo  *image.NRGBA
	Dime  *image.NRGBA
	GemA  *image.NRGBA
	GemB  *image.NRGBA
	DimsA sizing.Dimensions
	DimsB sizing.Dimensions
}

// LoadAssets sizes both diamonds against the reference coin.
// Artwork from the diamonds dir wins over the generated gems.
func LoadAssets(c config.Config, table sizing.SizeTable, cmp diamond.Comparison, faces *text.Faces) (Assets, error) {
	log := logger.Scope("render")
	palette := NewPalette(c.Palette)
	scale := sizing.NewScale(c.Sizes.ReferenceMM, c.Sizes.ReferencePx)

	a := Assets{
		DimsA: table.Lookup(cmp.A),
		DimsB: table.Lookup(cmp.B),
		Dime:  graphics.LoadDime(c.Assets.Dime, c.Sizes.ReferencePx),
	}
	log.Debugf("%s: %.2fx%.2fmm, %s: %.2fx%.2fmm",
		cmp.A, a.DimsA.Width, a.DimsA.Height, cmp.B, a.DimsB.Width, a.DimsB.Height)

	a.GemA = loadGem(c.Assets.DiamondsDir, cmp.A.Shape, scale.Px(a.DimsA.Width), palette.First)
	a.GemB = loadGem(c.Assets.DiamondsDir, cmp.B.Shape, scale.Px(a.DimsB.Width), palette.Second)

	logo, err := graphics.Logo(c.Assets.Logo, c.Video.Width*4/5, c.Video.Height/4, faces)
	if err != nil {
		return Assets{}, fmt.Errorf("logo: %w", err)
	}
	a.Logo = logo
	return a, nil
}

func loadGem(dir, shape string, size int, col color.NRGBA) *image.NRGBA {
	if img, ok := graphics.LoadArtwork(dir, shape, size, col); ok {
		return img
	}
	return graphics.Gem(shape, size, col)
}

type Settings struct {
	Width       int
	Height      int
	Palette     Palette
	Timeline    Timeline
	Layout      string
	Site        string
	ReferenceMM float64
}

// NewSettings derives the scene settings for a narration of the given length,
// 0 when silent
func NewSettings(c config.Config, narration float64) Settings {
	return Settings{
		Width:       c.Video.Width,
		Height:      c.Video.Height,
		Palette:     NewPalette(c.Palette),
		Timeline:    NewTimeline(c.Timeline, narration),
		Layout:      c.Output.Layout,
		Site:        c.Output.Site,
		ReferenceMM: c.Sizes.ReferenceMM,
	}
}

// Scene holds everything a frame is made of. It is read only once built,
// so Frame can be called from many goroutines.
type Scene struct {
	settings Settings
	introBg  *image.NRGBA
	darkBg   *image.NRGBA
	logo     Layer
	intro    []Layer
	outro    []Layer
	layout   Layout
}

func NewScene(s Settings, cmp diamond.Comparison, a Assets, faces *text.Faces) (*Scene, error) {
	c := &captions{faces: faces, width: s.Width}
	p := s.Palette

	scene := &Scene{
		settings: s,
		introBg:  solid(s.Width, s.Height, p.Intro),
		darkBg:   solid(s.Width, s.Height, p.Background),
	}

	if a.Logo != nil {
		lb := a.Logo.Bounds()
		scene.logo = Layer{Img: a.Logo, At: image.Pt((s.Width-lb.Dx())/2, (s.Height-lb.Dy())/2)}
	}

	introStyle := style(50, false, p.Text)
	introStyle.MaxWidth = s.Width - 100
	introStyle.LineGap = 15
	scene.intro = []Layer{
		c.centered(IntroCaption(cmp), introStyle, s.Height/2-150),
		c.centered("We'll use a US dime for the size comparison.", style(45, false, p.Text), s.Height/2+100),
	}

	scene.outro = []Layer{
		c.centered("See more comparisons at", style(50, false, p.Text), s.Height/2-120),
		c.centered(s.Site, style(70, true, p.First), s.Height/2-20),
		c.centered("Check description for", style(45, false, p.Text), s.Height/2+80),
		c.centered("high-quality diamond outlets", style(45, false, p.Text), s.Height/2+140),
	}

	switch s.Layout {
	case config.LayoutSideways:
		scene.layout = newSideways(s, cmp, a, c)
	default:
		scene.layout = newVertical(s, cmp, a, c)
	}
	if c.err != nil {
		return nil, fmt.Errorf("captions: %w", c.err)
	}
	return scene, nil
}

// IntroCaption is the on screen version of the narrated intro
func IntroCaption(cmp diamond.Comparison) string {
	return fmt.Sprintf("Let's compare the size of a %s carat %s diamond to a %s carat %s diamond.",
		diamond.FormatCarat(cmp.A.Carat), cmp.A.Phrase(),
		diamond.FormatCarat(cmp.B.Carat), cmp.B.Phrase())
}

func (s *Scene) Timeline() Timeline {
	return s.settings.Timeline
}

func (s *Scene) FrameCount(fps int) int {
	return s.settings.Timeline.FrameCount(fps)
}

// Frame renders the frame shown at t seconds
func (s *Scene) Frame(t float64) *image.NRGBA {
	tl := s.settings.Timeline
	phase, sec := tl.At(t)

	switch phase {
	case PhaseLogo:
		frame := clone(s.introBg)
		paste(frame, s.logo, logoAlpha(sec, tl.Logo))
		return frame
	case PhaseIntro:
		frame := clone(s.darkBg)
		alpha := tl.FadeIn(sec)
		for _, l := range s.intro {
			paste(frame, l, alpha)
		}
		return frame
	case PhaseComparison:
		frame := clone(s.darkBg)
		s.layout.Draw(frame, sec/tl.Fade)
		return frame
	default:
		frame := clone(s.darkBg)
		alpha := tl.FadeIn(sec)
		for _, l := range s.outro {
			paste(frame, l, alpha)
		}
		return frame
	}
}
