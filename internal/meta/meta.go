package meta

import (
	"fmt"
	"strings"
	"unicode/utf8"

	cfg "github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/storage"
)

// Metadata is the upload sidecar written next to every video
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
}

type Link struct {
	Retailer string
	URL      string
}

const (
	blueNileURL   = "https://www.bluenile.com/diamond-search?CaratFrom=%[1]s&CaratTo=%[1]s&Shape=%[2]s-cut&a_aid=6938679a08145&a_cid=55e51e63"
	jamesAllenURL = "https://www.jamesallen.com/loose-diamonds/all-diamonds/?Shape=%[2]s-cut&CaratFrom=%[1]s&CaratTo=%[1]s&a_aid=6938679a08145&a_cid=dfef9309"
)

var brilliantEarth = map[string]string{
	"round":    "https://brilliantearth.sjv.io/MAZ2YN",
	"oval":     "https://brilliantearth.sjv.io/kO59Pv",
	"cushion":  "https://brilliantearth.sjv.io/xLBrq3",
	"pear":     "https://brilliantearth.sjv.io/POoRqM",
	"princess": "https://brilliantearth.sjv.io/e1Dex6",
	"emerald":  "https://brilliantearth.sjv.io/GKaOY6",
	"marquise": "https://brilliantearth.sjv.io/VxnAjJ",
	"radiant":  "https://brilliantearth.sjv.io/Z62Le0",
	"asscher":  "https://brilliantearth.sjv.io/o4A5ge",
	"heart":    "https://brilliantearth.sjv.io/BnjOV0",
}

// AffiliateLinks are the retailer searches for d. Brilliant Earth only has
// per shape links, unknown shapes get the round one.
func AffiliateLinks(d diamond.Diamond) []Link {
	carat := diamond.FormatCarat(d.Carat)
	be, ok := brilliantEarth[d.Shape]
	if !ok {
		be = brilliantEarth["round"]
	}
	return []Link{
		{"Blue Nile", fmt.Sprintf(blueNileURL, carat, d.Shape)},
		{"James Allen", fmt.Sprintf(jamesAllenURL, carat, d.Shape)},
		{"Brilliant Earth", be},
	}
}

func New(c diamond.Comparison, dimsA, dimsB sizing.Dimensions, site string) Metadata {
	if site == "" {
		site = cfg.DefaultWebsite
	}
	a, b := c.A, c.B
	ca, cb := diamond.FormatCarat(a.Carat), diamond.FormatCarat(b.Carat)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compare %s carat %s vs %s carat %s diamonds side-by-side!\n\n", ca, a.Title(), cb, b.Title())
	sb.WriteString("See the actual size difference with precise measurements. Perfect for engagement ring shopping.\n\n")
	sb.WriteString("📏 MEASUREMENTS:\n")
	fmt.Fprintf(&sb, "• %sct %s: %.1fmm × %.1fmm\n", ca, a.Title(), dimsA.Width, dimsA.Height)
	fmt.Fprintf(&sb, "• %sct %s: %.1fmm × %.1fmm\n\n", cb, b.Title(), dimsB.Width, dimsB.Height)
	sb.WriteString("💍 SHOP CERTIFIED DIAMONDS:\n")
	for _, l := range AffiliateLinks(a) {
		fmt.Fprintf(&sb, "💎 %s: %s\n", l.Retailer, l.URL)
	}
	sb.WriteString("\n🔗 FULL INTERACTIVE TOOL:\n")
	fmt.Fprintf(&sb, "https://www.%s/compare/%s\n\n", site, c.Slug())
	fmt.Fprintf(&sb, "Compare over 1,200 diamond sizes at %s - the ultimate diamond size comparison tool!\n\n", site)
	fmt.Fprintf(&sb, "#diamondsize #engagementring #diamondcomparison #%sdiamond #%sdiamond "+
		"#caratsize #diamondshopping #bridetobe #proposal #weddingring\n\n", a.Shape, b.Shape)
	sb.WriteString("---\nDisclosure: Affiliate links above support this channel at no extra cost to you.")

	return Metadata{
		Title:       Title(c),
		Description: sb.String(),
		Tags:        Tags(c),
		Category:    cfg.UploadCategoryID,
	}
}

// Title fits the youtube limit
func Title(c diamond.Comparison) string {
	title := fmt.Sprintf("%sct %s vs %sct %s Diamond Size Comparison #Shorts",
		diamond.FormatCarat(c.A.Carat), c.A.Title(), diamond.FormatCarat(c.B.Carat), c.B.Title())
	return truncate(title, cfg.UploadMaxTitleLen)
}

// Tags are unique and at most UploadMaxTags long
func Tags(c diamond.Comparison) []string {
	ca, cb := diamond.FormatCarat(c.A.Carat), diamond.FormatCarat(c.B.Carat)
	all := []string{
		"diamond size",
		"diamond comparison",
		c.A.Shape + " diamond",
		c.B.Shape + " diamond",
		ca + " carat diamond",
		cb + " carat diamond",
		"engagement ring",
		"diamond shopping",
		"carat compare",
		"diamond size chart",
		"how big is diamond",
		"diamond actual size",
	}
	seen := make(map[string]bool, len(all))
	tags := make([]string, 0, len(all))
	for _, t := range all {
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > cfg.UploadMaxTags {
		tags = tags[:cfg.UploadMaxTags]
	}
	return tags
}

func (m Metadata) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("metadata has no title")
	}
	if utf8.RuneCountInString(m.Title) > cfg.UploadMaxTitleLen {
		return fmt.Errorf("title longer than %d characters", cfg.UploadMaxTitleLen)
	}
	if len(m.Tags) > cfg.UploadMaxTags {
		return fmt.Errorf("%d tags, youtube takes %d", len(m.Tags), cfg.UploadMaxTags)
	}
	return nil
}

// Save writes the sidecar of video
func (m Metadata) Save(video string) error {
	return storage.WriteJSON(storage.MetadataPath(video), m)
}

// Load reads the sidecar of video
func Load(video string) (Metadata, error) {
	var m Metadata
	if err := storage.ReadJSON(storage.MetadataPath(video), &m); err != nil {
		return Metadata{}, err
	}
	if m.Category == "" {
		m.Category = cfg.UploadCategoryID
	}
	return m, m.Validate()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}
