package graphics

import (
	"image"
	"image/color"

	"github.com/caratcompare/caratreel/internal/text"
	"golang.org/x/image/draw"
)

const logoText = "CARAT COMPARE"

// Logo loads the logo png fitted to w x h, or draws the text logo
func Logo(path string, w, h int, faces *text.Faces) (*image.NRGBA, error) {
	if path != "" {
		if img, err := Load(path); err == nil {
			return Fit(img, w, h), nil
		}
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	label, err := faces.Render(logoText, text.Style{
		Size:   80,
		Bold:   true,
		Color:  color.NRGBA{255, 255, 255, 255},
		Shadow: 4,
	})
	if err != nil {
		return nil, err
	}
	if label.Bounds().Dx() > w {
		label = Fit(label, w, h)
	}
	lb := label.Bounds()
	at := image.Pt((w-lb.Dx())/2, (h-lb.Dy())/2)
	draw.Draw(canvas, lb.Add(at), label, image.Point{}, draw.Over)
	return canvas, nil
}
