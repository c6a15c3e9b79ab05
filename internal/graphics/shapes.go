package graphics

import (
	"image"
	"image/color"
	"math"
	"strings"
)

var white = color.NRGBA{255, 255, 255, 255}

// Gem draws a stylized diamond of the given shape in a size x size box.
// Unknown shapes get the plain layered circle.
func Gem(shape string, size int, col color.NRGBA) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	box := rect{0, 0, float64(size), float64(size)}

	switch strings.ToLower(shape) {
	case "round":
		drawRound(img, box, col)
	case "heart":
		drawHeart(img, box, col)
	case "oval":
		drawOval(img, box, col)
	case "princess":
		drawFaceted(img, box, col, square)
	case "asscher":
		drawFaceted(img, box, col, func(r rect) []pt { return octagon(r, 0.22) })
	case "radiant":
		drawFaceted(img, box, col, func(r rect) []pt { return octagon(narrow(r, 0.85), 0.15) })
	case "emerald":
		drawFaceted(img, box, col, func(r rect) []pt { return octagon(narrow(r, 0.7), 0.15) })
	case "cushion":
		drawFaceted(img, box, col, cushion)
	case "pear":
		drawFaceted(img, box, col, func(r rect) []pt { return pear(narrow(r, 0.68)) })
	case "marquise":
		drawFaceted(img, box, col, func(r rect) []pt { return marquise(narrow(r, 0.5)) })
	default:
		for i := 0; i < 5; i++ {
			fillEllipse(img, box.inset(float64(i*3)), withAlpha(col, 255-i*30))
		}
	}
	return img
}

func drawRound(img *image.NRGBA, box rect, col color.NRGBA) {
	s := box.w()
	c := box.center()

	// outer glow
	for i := 5; i > 0; i-- {
		fillEllipse(img, box.inset(float64(5-i)), withAlpha(col, 30+i*10))
	}
	// body
	step := math.Floor(s / 40)
	for i := 0; i < 10; i++ {
		fillEllipse(img, box.inset(float64(i)*step), withAlpha(col, 255-i*15))
	}

	facet := withAlpha(white, 60)
	for _, l := range [][2]pt{
		{{c.X, 0}, {c.X, s}},
		{{0, c.Y}, {s, c.Y}},
		{{0, 0}, {s, s}},
		{{s, 0}, {0, s}},
		{{c.X, 0}, {0, c.Y}},
		{{c.X, 0}, {s, c.Y}},
		{{c.X, s}, {0, c.Y}},
		{{c.X, s}, {s, c.Y}},
	} {
		strokeLine(img, l[0], l[1], 2, facet)
	}

	// table
	t := math.Floor(s / 3)
	to := math.Floor((s - t) / 2)
	fillEllipse(img, rect{to, to, to + t, to + t}, withAlpha(white, 100))

	highlight(img, s)
}

func drawHeart(img *image.NRGBA, box rect, col color.NRGBA) {
	c := box.center()
	pts := heartPoints(c, box.w()/2)
	fillPolygon(img, pts, withAlpha(col, 200))
	strokePolygon(img, pts, 3, withAlpha(col, 255))

	// sparkle
	r := box.w() / 20
	fillEllipse(img, rect{c.X - r, c.Y - 2*r, c.X + r, c.Y}, withAlpha(white, 180))
}

// heartPoints samples the classic parametric heart curve
func heartPoints(c pt, radius float64) []pt {
	scale := radius / 20
	pts := make([]pt, 0, 360)
	for i := 0; i < 360; i++ {
		a := float64(i) * math.Pi / 180
		x := 16 * math.Pow(math.Sin(a), 3)
		y := -(13*math.Cos(a) - 5*math.Cos(2*a) - 2*math.Cos(3*a) - math.Cos(4*a))
		pts = append(pts, pt{c.X + x*scale, c.Y + y*scale})
	}
	return pts
}

func drawOval(img *image.NRGBA, box rect, col color.NRGBA) {
	s := box.w()
	c := box.center()
	w := math.Floor(s * 0.7)
	ox := math.Floor((s - w) / 2)

	for i := 0; i < 5; i++ {
		o := float64(i * 2)
		fillEllipse(img, rect{ox + o, o, s - ox - o, s - o}, withAlpha(col, 255-i*30))
	}
	facet := withAlpha(white, 80)
	strokeLine(img, pt{c.X, 0}, pt{c.X, s}, 2, facet)
	strokeLine(img, pt{ox, c.Y}, pt{s - ox, c.Y}, 2, facet)
}

// drawFaceted fills the outline in fading layers, then adds a table,
// facet lines from the center to every outline corner and a highlight
func drawFaceted(img *image.NRGBA, box rect, col color.NRGBA, outline func(rect) []pt) {
	s := box.w()
	step := math.Max(1, s/60)
	for i := 0; i < 5; i++ {
		fillPolygon(img, outline(box.inset(float64(i)*step)), withAlpha(col, 255-i*30))
	}

	c := box.center()
	corners := outline(box)
	facet := withAlpha(white, 70)
	every := 1
	if len(corners) > 16 {
		every = len(corners) / 8
	}
	for i := 0; i < len(corners); i += every {
		strokeLine(img, c, corners[i], 2, facet)
	}

	t := s * 0.275
	fillPolygon(img, outline(box.inset(t)), withAlpha(white, 90))
	highlight(img, s)
}

func highlight(img *image.NRGBA, s float64) {
	h := math.Floor(s / 5)
	o := math.Floor(s / 4)
	fillEllipse(img, rect{o, o, o + h, o + h}, withAlpha(white, 200))
}

// narrow keeps the height and shrinks the width around the center
func narrow(r rect, ratio float64) rect {
	c := r.center()
	hw := r.w() * ratio / 2
	return rect{c.X - hw, r.Y0, c.X + hw, r.Y1}
}

func square(r rect) []pt {
	return []pt{{r.X0, r.Y0}, {r.X1, r.Y0}, {r.X1, r.Y1}, {r.X0, r.Y1}}
}

// octagon is a rectangle with the corners cut by cut * shorter side
func octagon(r rect, cut float64) []pt {
	d := math.Min(r.w(), r.h()) * cut
	return []pt{
		{r.X0 + d, r.Y0}, {r.X1 - d, r.Y0},
		{r.X1, r.Y0 + d}, {r.X1, r.Y1 - d},
		{r.X1 - d, r.Y1}, {r.X0 + d, r.Y1},
		{r.X0, r.Y1 - d}, {r.X0, r.Y0 + d},
	}
}

// cushion is a superellipse, a square with soft corners
func cushion(r rect) []pt {
	const n = 4.0
	c := r.center()
	a, b := r.w()/2, r.h()/2
	pts := make([]pt, 0, 72)
	for i := 0; i < 72; i++ {
		t := float64(i) * 2 * math.Pi / 72
		ct, st := math.Cos(t), math.Sin(t)
		x := a * math.Copysign(math.Pow(math.Abs(ct), 2/n), ct)
		y := b * math.Copysign(math.Pow(math.Abs(st), 2/n), st)
		pts = append(pts, pt{c.X + x, c.Y + y})
	}
	return pts
}

// pear has the point on top and a round bottom
func pear(r rect) []pt {
	radius := r.w() / 2
	cy := r.Y1 - radius
	cx := r.center().X
	pts := []pt{{cx, r.Y0}}
	for deg := -20.0; deg <= 200; deg += 5 {
		a := deg * math.Pi / 180
		pts = append(pts, pt{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}

// marquise is a lens with pointed top and bottom
func marquise(r rect) []pt {
	c := r.center()
	hw, hh := r.w()/2, r.h()/2
	pts := make([]pt, 0, 72)
	for i := 0; i < 72; i++ {
		t := float64(i) * 2 * math.Pi / 72
		s := math.Sin(t)
		pts = append(pts, pt{c.X + hw*math.Copysign(s*s, s), c.Y - hh*math.Cos(t)})
	}
	return pts
}
