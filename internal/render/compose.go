package render

import (
	"image"
	"image/color"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/text"
	"golang.org/x/image/draw"
)

type Palette struct {
	First      color.NRGBA
	Second     color.NRGBA
	Background color.NRGBA
	Intro      color.NRGBA
	Text       color.NRGBA
}

// NewPalette expects a validated config
func NewPalette(cfg config.PaletteConfig) Palette {
	return Palette{
		First:      config.MustHex(cfg.First),
		Second:     config.MustHex(cfg.Second),
		Background: config.MustHex(cfg.Background),
		Intro:      config.MustHex(cfg.Intro),
		Text:       config.MustHex(cfg.Text),
	}
}

// Layer is a pre-rendered image and where its top left corner goes
type Layer struct {
	Img *image.NRGBA
	At  image.Point
}

func (l Layer) Bounds() image.Rectangle {
	if l.Img == nil {
		return image.Rectangle{}
	}
	return l.Img.Bounds().Sub(l.Img.Bounds().Min).Add(l.At)
}

// paste composites l over dst with alpha as a multiplier on the layer's own alpha
func paste(dst *image.NRGBA, l Layer, alpha float64) {
	if l.Img == nil || alpha <= 0 {
		return
	}
	sp := l.Img.Bounds().Min
	if alpha >= 1 {
		draw.Draw(dst, l.Bounds(), l.Img, sp, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha * 255)})
	draw.DrawMask(dst, l.Bounds(), l.Img, sp, mask, image.Point{}, draw.Over)
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// captions renders text layers for a frame of the given width, keeping the
// first error so a scene can be built without checking every line
type captions struct {
	faces *text.Faces
	width int
	err   error
}

func (c *captions) render(s string, st text.Style) *image.NRGBA {
	if c.err != nil {
		return nil
	}
	img, err := c.faces.Render(s, st)
	if err != nil {
		c.err = err
		return nil
	}
	return img
}

// centered is horizontally centered in the frame with its top at y
func (c *captions) centered(s string, st text.Style, y int) Layer {
	img := c.render(s, st)
	if img == nil {
		return Layer{}
	}
	return Layer{Img: img, At: text.Centered(img, c.width, y)}
}

// around is horizontally centered on x
func (c *captions) around(s string, st text.Style, x, y int) Layer {
	img := c.render(s, st)
	if img == nil {
		return Layer{}
	}
	return Layer{Img: img, At: image.Pt(x-img.Bounds().Dx()/2, y)}
}

func style(size float64, bold bool, col color.NRGBA) text.Style {
	return text.Style{Size: size, Bold: bold, Color: col, Shadow: 3}
}
