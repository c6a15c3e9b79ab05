// Package sizing resolves a diamond's physical size from the reference table
// and maps millimetres to on-screen pixels using a coin of known diameter.
package sizing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/caratcompare/caratreel/internal/diamond"
)

// FallbackMM is used for both sides when a carat/shape pair is not in the table.
// The gap is not reported, the render just goes on with a 5mm square.
const FallbackMM = 5.0

//go:embed diamond-sizes.json
var embeddedTable []byte

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeTable is shape -> carat key ("1.00") -> dimensions in mm. Read only once loaded.
type SizeTable map[string]map[string]Dimensions

func ParseTable(r io.Reader) (SizeTable, error) {
	var t SizeTable
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode size table: %w", err)
	}
	// shape keys are matched lowercase
	out := make(SizeTable, len(t))
	for shape, rows := range t {
		out[strings.ToLower(shape)] = rows
	}
	return out, nil
}

// LoadTable reads the table from path, or the embedded one when path is empty
func LoadTable(path string) (SizeTable, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open size table: %w", err)
	}
	defer f.Close()
	return ParseTable(f)
}

func DefaultTable() SizeTable {
	t, err := ParseTable(strings.NewReader(string(embeddedTable)))
	if err != nil {
		panic(fmt.Sprintf("embedded size table is broken: %s", err))
	}
	return t
}

// LookupDimensions never fails: unknown shape or carat gives FallbackMM x FallbackMM
func LookupDimensions(carat float64, shape string, table SizeTable) (widthMM, heightMM float64) {
	rows := table[strings.ToLower(shape)]
	dims, ok := rows[diamond.CaratKey(carat)]
	if !ok {
		return FallbackMM, FallbackMM
	}
	return dims.Width, dims.Height
}

func (t SizeTable) Lookup(d diamond.Diamond) Dimensions {
	w, h := LookupDimensions(d.Carat, d.Shape, t)
	return Dimensions{Width: w, Height: h}
}

// MMToPx converts using referencePx/referenceMM pixels per mm.
// Non-positive references are a programming error.
func MMToPx(valueMM, referenceMM float64, referencePx int) int {
	if referenceMM <= 0 || referencePx <= 0 {
		panic(fmt.Sprintf("sizing: bad reference %.3fmm / %dpx", referenceMM, referencePx))
	}
	return int(math.Round(valueMM * (float64(referencePx) / referenceMM)))
}

// Scale pairs the reference object with the pixel size it is drawn at
type Scale struct {
	ReferenceMM float64
	ReferencePx int
}

func NewScale(referenceMM float64, referencePx int) Scale {
	return Scale{ReferenceMM: referenceMM, ReferencePx: referencePx}
}

func (s Scale) Px(mm float64) int {
	return MMToPx(mm, s.ReferenceMM, s.ReferencePx)
}

func (s Scale) PerMM() float64 {
	return float64(s.ReferencePx) / s.ReferenceMM
}
