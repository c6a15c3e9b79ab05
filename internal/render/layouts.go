package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/sizing"
)

// Layout draws the comparison phase. progress is seconds into the phase
// divided by the fade length and keeps growing past 1.
type Layout interface {
	Draw(dst *image.NRGBA, progress float64)
}

// vertical stacks diamond A above the coin and diamond B below it,
// fading in one after the other
type vertical struct {
	dime       Layer
	gemA       Layer
	gemB       Layer
	dimeLabels []Layer
	labelsA    []Layer
	labelsB    []Layer
}

const (
	verticalDimeAt = 0.2
	verticalAAt    = 0.5
	verticalBAt    = 0.7
	verticalFade   = 0.3
)

func newVertical(s Settings, cmp diamond.Comparison, a Assets, c *captions) *vertical {
	spacing := s.Height / 6
	cx := s.Width / 2
	p := s.Palette

	db := a.Dime.Bounds()
	dimeY := s.Height/2 - db.Dy()/2
	v := &vertical{
		dime: Layer{Img: a.Dime, At: image.Pt(cx-db.Dx()/2, dimeY)},
	}
	v.dimeLabels = []Layer{
		c.centered(referenceName, style(35, false, p.Text), dimeY+db.Dy()+20),
		c.centered(fmt.Sprintf("%.1fmm", s.ReferenceMM), style(40, true, p.Text), dimeY+db.Dy()+70),
	}

	ab := a.GemA.Bounds()
	v.gemA = Layer{Img: a.GemA, At: image.Pt(cx-ab.Dx()/2, dimeY-spacing-ab.Dy()/2)}
	v.labelsA = gemLabels(c, cmp.A, a.DimsA, v.gemA, p.First, p)

	bb := a.GemB.Bounds()
	v.gemB = Layer{Img: a.GemB, At: image.Pt(cx-bb.Dx()/2, dimeY+db.Dy()+spacing-bb.Dy()/2)}
	v.labelsB = gemLabels(c, cmp.B, a.DimsB, v.gemB, p.Second, p)
	return v
}

func gemLabels(c *captions, d diamond.Diamond, dims sizing.Dimensions, gem Layer, col color.NRGBA, p Palette) []Layer {
	top := gem.At.Y
	bottom := gem.Bounds().Max.Y
	return []Layer{
		c.centered(diamond.FormatCarat(d.Carat)+"ct", style(55, true, col), top-100),
		c.centered(d.Title(), style(40, false, p.Text), top-40),
		c.centered(mmLabel(dims), style(35, false, p.Text), bottom+10),
	}
}

func mmLabel(d sizing.Dimensions) string {
	if d.Width == d.Height {
		return fmt.Sprintf("%.1fmm", d.Width)
	}
	return fmt.Sprintf("%.1f x %.1fmm", d.Width, d.Height)
}

func (v *vertical) Draw(dst *image.NRGBA, progress float64) {
	stage := func(img Layer, labels []Layer, at float64) {
		if progress <= at {
			return
		}
		alpha := clamp01((progress - at) / verticalFade)
		paste(dst, img, alpha)
		for _, l := range labels {
			paste(dst, l, alpha)
		}
	}
	stage(v.dime, v.dimeLabels, verticalDimeAt)
	stage(v.gemA, v.labelsA, verticalAAt)
	stage(v.gemB, v.labelsB, verticalBAt)
}

// sideways keeps the coin centered while the diamonds slide in from the
// left and right edges
type sideways struct {
	dime       Layer
	gemA       *image.NRGBA
	gemB       *image.NRGBA
	fromA, toA image.Point
	fromB, toB image.Point
	labels     []Layer
}

const sidewaysLabelsAt = 0.5

func newSideways(s Settings, cmp diamond.Comparison, a Assets, c *captions) *sideways {
	cy := s.Height / 2
	p := s.Palette

	db := a.Dime.Bounds()
	sw := &sideways{
		dime: Layer{Img: a.Dime, At: image.Pt((s.Width-db.Dx())/2, cy-db.Dy()/2)},
		gemA: a.GemA,
		gemB: a.GemB,
	}

	// lanes at one sixth of the width from each edge stay clear of the coin
	laneA, laneB := s.Width/6, s.Width*5/6
	ab, bb := a.GemA.Bounds(), a.GemB.Bounds()
	sw.fromA = image.Pt(-ab.Dx(), cy-ab.Dy()/2)
	sw.toA = image.Pt(laneA-ab.Dx()/2, cy-ab.Dy()/2)
	sw.fromB = image.Pt(s.Width, cy-bb.Dy()/2)
	sw.toB = image.Pt(laneB-bb.Dx()/2, cy-bb.Dy()/2)

	sw.labels = []Layer{
		c.around(diamond.FormatCarat(cmp.A.Carat)+"ct", style(70, true, p.First), laneA, cy-360),
		c.around(cmp.A.Title(), style(45, false, p.Text), laneA, cy-270),
		c.around(diamond.FormatCarat(cmp.B.Carat)+"ct", style(70, true, p.Second), laneB, cy-360),
		c.around(cmp.B.Title(), style(45, false, p.Text), laneB, cy-270),
		c.centered(fmt.Sprintf("%s (%.1fmm)", referenceName, s.ReferenceMM), style(45, false, p.Text), cy+db.Dy()/2+60),
		c.centered(fmt.Sprintf("%.1fmm vs %.1fmm", a.DimsA.Width, a.DimsB.Width), style(50, true, p.Text), cy+db.Dy()/2+140),
	}
	return sw
}

func (sw *sideways) Draw(dst *image.NRGBA, progress float64) {
	paste(dst, sw.dime, 1)

	slide := clamp01(progress)
	paste(dst, Layer{Img: sw.gemA, At: lerp(sw.fromA, sw.toA, slide)}, 1)
	paste(dst, Layer{Img: sw.gemB, At: lerp(sw.fromB, sw.toB, slide)}, 1)

	if progress > sidewaysLabelsAt {
		alpha := clamp01((progress - sidewaysLabelsAt) / sidewaysLabelsAt)
		for _, l := range sw.labels {
			paste(dst, l, alpha)
		}
	}
}

func lerp(a, b image.Point, t float64) image.Point {
	return image.Pt(
		a.X+int(float64(b.X-a.X)*t),
		a.Y+int(float64(b.Y-a.Y)*t),
	)
}
