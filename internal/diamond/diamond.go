// Package diamond holds the value types passed around the renderer:
// a single stone (carat + shape) and a pair of them being compared.
package diamond

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Shapes the size table and the artwork cover
var Shapes = []string{
	"round",
	"princess",
	"cushion",
	"emerald",
	"asscher",
	"oval",
	"pear",
	"marquise",
	"radiant",
	"heart",
}

var titleCaser = cases.Title(language.English)

type Diamond struct {
	Carat float64
	Shape string
}

func New(carat float64, shape string) Diamond {
	return Diamond{Carat: carat, Shape: strings.ToLower(strings.TrimSpace(shape))}
}

// CaratKey is the two decimal form used as the size table key: 1 -> "1.00"
func CaratKey(carat float64) string {
	return fmt.Sprintf("%.2f", carat)
}

// FormatCarat is the display form: whole and half carats get one decimal, the rest two.
// 1 -> "1.0", 1.5 -> "1.5", 0.75 -> "0.75"
func FormatCarat(carat float64) string {
	frac := math.Mod(carat, 1)
	if frac == 0 || frac == 0.5 {
		return fmt.Sprintf("%.1f", carat)
	}
	return fmt.Sprintf("%.2f", carat)
}

// IsKnownShape reports whether a dedicated gem graphic exists for shape
func IsKnownShape(shape string) bool {
	shape = strings.ToLower(shape)
	for _, s := range Shapes {
		if s == shape {
			return true
		}
	}
	return false
}

// Title is the capitalized shape name, "princess" -> "Princess"
func (d Diamond) Title() string {
	return titleCaser.String(d.Shape)
}

// Phrase is how the shape is spoken in narration
func (d Diamond) Phrase() string {
	switch d.Shape {
	case "round":
		return d.Shape
	case "heart":
		return d.Shape + " shaped"
	default:
		return d.Shape + " cut"
	}
}

func (d Diamond) String() string {
	return fmt.Sprintf("%sct %s", FormatCarat(d.Carat), d.Shape)
}

type Comparison struct {
	A Diamond
	B Diamond
}

func NewComparison(carat1 float64, shape1 string, carat2 float64, shape2 string) Comparison {
	return Comparison{A: New(carat1, shape1), B: New(carat2, shape2)}
}

// Slug is "1.0-round-vs-2.0-heart", used for file names and site links
func (c Comparison) Slug() string {
	return fmt.Sprintf("%s-%s-vs-%s-%s", FormatCarat(c.A.Carat), c.A.Shape, FormatCarat(c.B.Carat), c.B.Shape)
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s vs %s", c.A, c.B)
}

var (
	slugRe  = regexp.MustCompile(`^([\d.]+)-([a-z]+)-vs-([\d.]+)-([a-z]+)$`)
	shapeRe = regexp.MustCompile(`^[a-z]+$`)
)

func ParseSlug(slug string) (Comparison, error) {
	m := slugRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(slug)))
	if m == nil {
		return Comparison{}, fmt.Errorf("bad comparison %q, expected <carat>-<shape>-vs-<carat>-<shape>", slug)
	}
	return ParseArgs([]string{m[1], m[2], m[3], m[4]})
}

// ParseArgs reads the four positional cli arguments: carat1 shape1 carat2 shape2
func ParseArgs(args []string) (Comparison, error) {
	if len(args) != 4 {
		return Comparison{}, fmt.Errorf("expected 4 arguments <carat1> <shape1> <carat2> <shape2>, got %d", len(args))
	}
	a, err := Parse(args[0], args[1])
	if err != nil {
		return Comparison{}, err
	}
	b, err := Parse(args[2], args[3])
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{A: a, B: b}, nil
}

// Parse reads a carat and shape pair
func Parse(carat, shape string) (Diamond, error) {
	c, err := parseCarat(carat)
	if err != nil {
		return Diamond{}, err
	}
	if strings.TrimSpace(shape) == "" {
		return Diamond{}, fmt.Errorf("shape is required")
	}
	d := New(c, shape)
	if !shapeRe.MatchString(d.Shape) {
		return Diamond{}, fmt.Errorf("bad shape %q: letters only", shape)
	}
	return d, nil
}

func parseCarat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad carat %q: %w", s, err)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bad carat %q: must be a non-negative number", s)
	}
	return v, nil
}
