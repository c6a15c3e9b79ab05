// Package text draws overlay captions: centered lines with a drop shadow,
// optionally word wrapped to a max width.
package text

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var shadowColor = color.NRGBA{0, 0, 0, 200}

type Style struct {
	Size     float64
	Bold     bool
	Color    color.NRGBA
	Shadow   int // shadow offset in px, 0 disables it
	MaxWidth int // wrap when > 0
	LineGap  int
}

// Faces builds font faces on demand. A face is not safe for concurrent use,
// so Faces belongs to one goroutine; frames reuse the images it produced.
type Faces struct {
	regular *opentype.Font
	bold    *opentype.Font
	cache   map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

func NewFaces() (*Faces, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Faces{regular: regular, bold: bold, cache: map[faceKey]font.Face{}}, nil
}

func (f *Faces) Face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size, bold}
	if face, ok := f.cache[key]; ok {
		return face, nil
	}
	src := f.regular
	if bold {
		src = f.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %.0fpt: %w", size, err)
	}
	f.cache[key] = face
	return face, nil
}

func (f *Faces) Close() {
	for k, face := range f.cache {
		_ = face.Close()
		delete(f.cache, k)
	}
}

// Render draws s into a tight transparent image. Every line is centered
// inside the image so the caller only has to center the image itself.
func (f *Faces) Render(s string, st Style) (*image.NRGBA, error) {
	face, err := f.Face(st.Size, st.Bold)
	if err != nil {
		return nil, err
	}

	lines := []string{s}
	if st.MaxWidth > 0 {
		lines = Wrap(face, s, st.MaxWidth)
	}

	widths := make([]int, len(lines))
	maxW := 0
	for i, l := range lines {
		widths[i] = font.MeasureString(face, l).Ceil()
		if widths[i] > maxW {
			maxW = widths[i]
		}
	}

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	lineH := int(st.Size) + st.LineGap
	textH := lineH*(len(lines)-1) + ascent + m.Descent.Ceil()

	img := image.NewNRGBA(image.Rect(0, 0, maxW+st.Shadow+1, textH+st.Shadow+1))
	if maxW == 0 {
		return img, nil
	}

	d := &font.Drawer{Dst: img, Face: face}
	for i, l := range lines {
		x := (maxW - widths[i]) / 2
		y := i*lineH + ascent
		if st.Shadow > 0 {
			d.Src = image.NewUniform(shadowColor)
			d.Dot = fixed.P(x+st.Shadow, y+st.Shadow)
			d.DrawString(l)
		}
		d.Src = image.NewUniform(st.Color)
		d.Dot = fixed.P(x, y)
		d.DrawString(l)
	}
	return img, nil
}

// Wrap splits s on spaces into lines no wider than maxWidth.
// A single word wider than maxWidth gets a line of its own.
func Wrap(face font.Face, s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

// Centered places img horizontally centered in a frame of width frameW at top y
func Centered(img image.Image, frameW, y int) image.Point {
	return image.Pt((frameW-img.Bounds().Dx())/2, y)
}
