package graphics

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/caratcompare/caratreel/internal/logger"
	"golang.org/x/image/draw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var placeholderGray = color.NRGBA{192, 192, 192, 255}

func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Fit scales img to fit a w x h box keeping its aspect ratio
func Fit(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
	ratio := min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	tw := max(1, int(float64(b.Dx())*ratio+0.5))
	th := max(1, int(float64(b.Dy())*ratio+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Placeholder is the gray disc drawn when the coin photo is missing
func Placeholder(size int) *image.NRGBA {
	size = max(size, 1)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fillEllipse(img, rect{0, 0, float64(size), float64(size)}, placeholderGray)
	return img
}

// LoadDime returns the coin photo fitted to target px, or the placeholder
func LoadDime(path string, target int) *image.NRGBA {
	log := logger.Scope("graphics")
	if path == "" {
		return Placeholder(target)
	}
	img, err := Load(path)
	if err != nil {
		log.Warnf("dime image %s unavailable, using placeholder: %v", path, err)
		return Placeholder(target)
	}
	return Fit(img, target, target)
}

var shapeTitle = cases.Title(language.English)

// LoadArtwork looks for <dir>/<Shape>.png, as written by the svg converter,
// scales it to size and tints it with col. ok is false when there is no artwork.
func LoadArtwork(dir, shape string, size int, col color.NRGBA) (*image.NRGBA, bool) {
	if dir == "" {
		return nil, false
	}
	path := filepath.Join(dir, shapeTitle.String(shape)+".png")
	img, err := Load(path)
	if err != nil {
		logger.Scope("graphics").Debugf("no artwork for %s: %v", shape, err)
		return nil, false
	}
	return Tint(Fit(img, size, size), col), true
}

// Tint multiplies every pixel by col, alpha untouched
func Tint(img *image.NRGBA, col color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i] = uint8(uint16(img.Pix[i]) * uint16(col.R) / 255)
		out.Pix[i+1] = uint8(uint16(img.Pix[i+1]) * uint16(col.G) / 255)
		out.Pix[i+2] = uint8(uint16(img.Pix[i+2]) * uint16(col.B) / 255)
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
