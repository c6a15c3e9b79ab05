package core

import (
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/graphics"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/tui"
)

// artwork is rasterized large, the renderer scales it down per diamond
const artworkSize = 512

type SizeInfo struct {
	Diamond diamond.Diamond
	Dims    sizing.Dimensions
	// frame pixels at the reference coin scale
	WidthPx  int
	HeightPx int
}

// Size looks up a diamond and converts it to frame pixels
func (c *Core) Size(d diamond.Diamond) SizeInfo {
	dims := c.table.Lookup(d)
	scale := sizing.NewScale(c.cfg.Sizes.ReferenceMM, c.cfg.Sizes.ReferencePx)
	return SizeInfo{
		Diamond:  d,
		Dims:     dims,
		WidthPx:  scale.Px(dims.Width),
		HeightPx: scale.Px(dims.Height),
	}
}

// ConvertSVGs rasterizes the svg artwork dir into the png dir
func (c *Core) ConvertSVGs() (int, error) {
	c.emit(tui.NewEventSpin("Converting SVG artwork..."))
	return graphics.ConvertDir(c.cfg.Assets.SVGDir, c.cfg.Assets.PNGDir, artworkSize)
}
