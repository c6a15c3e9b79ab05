package render

import (
	"math"

	"github.com/caratcompare/caratreel/internal/config"
)

type Phase int

const (
	PhaseLogo Phase = iota
	PhaseIntro
	PhaseComparison
	PhaseOutro
)

func (p Phase) String() string {
	switch p {
	case PhaseLogo:
		return "logo"
	case PhaseIntro:
		return "intro"
	case PhaseComparison:
		return "comparison"
	default:
		return "outro"
	}
}

// narration plays from t=0; the video never ends before it
const narrationTail = 0.5

// Timeline is in seconds
type Timeline struct {
	Logo       float64
	Intro      float64
	Comparison float64
	Outro      float64
	Fade       float64
}

// NewTimeline stretches the comparison phase when the narration would
// outlast the video
func NewTimeline(cfg config.TimelineConfig, narration float64) Timeline {
	t := Timeline{
		Logo:       cfg.Logo,
		Intro:      cfg.Intro,
		Comparison: cfg.Comparison,
		Outro:      cfg.Outro,
		Fade:       cfg.Fade,
	}
	if extra := narration + narrationTail - t.Total(); narration > 0 && extra > 0 {
		t.Comparison += extra
	}
	return t
}

func (t Timeline) Total() float64 {
	return t.Logo + t.Intro + t.Comparison + t.Outro
}

// At maps a video time to the phase and the seconds spent in it
func (t Timeline) At(sec float64) (Phase, float64) {
	if sec < t.Logo {
		return PhaseLogo, sec
	}
	sec -= t.Logo
	if sec < t.Intro {
		return PhaseIntro, sec
	}
	sec -= t.Intro
	if sec < t.Comparison {
		return PhaseComparison, sec
	}
	return PhaseOutro, sec - t.Comparison
}

func (t Timeline) FrameCount(fps int) int {
	return int(math.Ceil(t.Total() * float64(fps)))
}

// FadeIn is the 0..1 opacity after sec seconds of a fade
func (t Timeline) FadeIn(sec float64) float64 {
	return clamp01(sec / t.Fade)
}

// logoAlpha fades in over the first second, out over the last
func logoAlpha(sec, length float64) float64 {
	return clamp01(math.Min(sec, length-sec))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
