package graphics

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

type pt struct{ X, Y float64 }

type rect struct{ X0, Y0, X1, Y1 float64 }

func (r rect) inset(d float64) rect {
	return rect{r.X0 + d, r.Y0 + d, r.X1 - d, r.Y1 - d}
}

func (r rect) center() pt {
	return pt{(r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2}
}

func (r rect) w() float64 { return r.X1 - r.X0 }
func (r rect) h() float64 { return r.Y1 - r.Y0 }

// fill rasterizes a closed path and composites col over img
func fill(img *image.NRGBA, col color.NRGBA, path func(z *vector.Rasterizer)) {
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	path(z)
	z.Draw(img, b, image.NewUniform(col), image.Point{})
}

func fillPolygon(img *image.NRGBA, pts []pt, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	fill(img, col, func(z *vector.Rasterizer) {
		z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	})
}

// kappa for approximating a quarter ellipse with one cubic
const kappa = 0.5522847498

func fillEllipse(img *image.NRGBA, r rect, col color.NRGBA) {
	if r.w() <= 0 || r.h() <= 0 {
		return
	}
	c := r.center()
	rx, ry := r.w()/2, r.h()/2
	kx, ky := rx*kappa, ry*kappa
	f := func(v float64) float32 { return float32(v) }
	fill(img, col, func(z *vector.Rasterizer) {
		z.MoveTo(f(c.X+rx), f(c.Y))
		z.CubeTo(f(c.X+rx), f(c.Y+ky), f(c.X+kx), f(c.Y+ry), f(c.X), f(c.Y+ry))
		z.CubeTo(f(c.X-kx), f(c.Y+ry), f(c.X-rx), f(c.Y+ky), f(c.X-rx), f(c.Y))
		z.CubeTo(f(c.X-rx), f(c.Y-ky), f(c.X-kx), f(c.Y-ry), f(c.X), f(c.Y-ry))
		z.CubeTo(f(c.X+kx), f(c.Y-ry), f(c.X+rx), f(c.Y-ky), f(c.X+rx), f(c.Y))
		z.ClosePath()
	})
}

// strokeLine draws a segment as a quad of the given width
func strokeLine(img *image.NRGBA, a, b pt, width float64, col color.NRGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	fillPolygon(img, []pt{
		{a.X + nx, a.Y + ny},
		{b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny},
		{a.X - nx, a.Y - ny},
	}, col)
}

func strokePolygon(img *image.NRGBA, pts []pt, width float64, col color.NRGBA) {
	for i := range pts {
		strokeLine(img, pts[i], pts[(i+1)%len(pts)], width, col)
	}
}

func withAlpha(c color.NRGBA, a int) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 255 {
		a = 255
	}
	c.A = uint8(a)
	return c
}
