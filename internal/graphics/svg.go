package graphics

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// RasterizeSVG renders the svg so its longer side is size px
func RasterizeSVG(r io.Reader, size int) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = 1, 1
	}
	w, h := size, size
	if vw > vh {
		h = max(1, int(float64(size)*vh/vw))
	} else {
		w = max(1, int(float64(size)*vw/vh))
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return toNRGBA(rgba), nil
}

func ConvertSVG(src, dst string, size int) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := RasterizeSVG(f, size)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	return SavePNG(dst, img)
}

// ConvertDir converts every *.svg in srcDir into dstDir/<name>.png.
// A broken file is logged and skipped, the count is of converted files.
func ConvertDir(srcDir, dstDir string, size int) (int, error) {
	log := logger.Scope("svg")
	files, err := filepath.Glob(filepath.Join(srcDir, "*.svg"))
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no svg files in %s", srcDir)
	}
	sort.Strings(files)
	log.Infof("Found %d SVG files", len(files))

	n := 0
	for _, src := range files {
		name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dst := filepath.Join(dstDir, name+".png")
		if err := ConvertSVG(src, dst, size); err != nil {
			log.Warnf("Error converting %s: %v", filepath.Base(src), err)
			continue
		}
		log.Debugf("Converted: %s -> %s", filepath.Base(src), filepath.Base(dst))
		n++
	}
	return n, nil
}
