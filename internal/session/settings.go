package session

import (
	"math"
	"time"
)

// Theme selects the display color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings are the per-session reading preferences.
type Settings struct {
	WPM            int           // words per minute, 100-1000
	FontSize       int           // display font size, 24-200
	ParagraphPause time.Duration // extra delay at a paragraph break, 0-5s
	Theme          Theme
}

// DefaultSettings returns 300 WPM, 72pt, a one second paragraph pause and
// the light theme.
func DefaultSettings() Settings {
	return Settings{
		WPM:            300,
		FontSize:       72,
		ParagraphPause: time.Second,
		Theme:          ThemeLight,
	}
}

// Interval returns how long each word stays on screen.
func (s Settings) Interval() time.Duration {
	if s.WPM <= 0 {
		return 0
	}
	ms := math.Round(60000 / float64(s.WPM))
	return time.Duration(ms) * time.Millisecond
}

func (s Settings) clamped() Settings {
	s.WPM = clampInt(s.WPM, 100, 1000)
	s.FontSize = clampInt(s.FontSize, 24, 200)
	if s.ParagraphPause < 0 {
		s.ParagraphPause = 0
	} else if s.ParagraphPause > 5*time.Second {
		s.ParagraphPause = 5 * time.Second
	}
	if s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Patch is a partial settings update; nil fields are left unchanged.
type Patch struct {
	WPM            *int
	FontSize       *int
	ParagraphPause *time.Duration
	Theme          *Theme
}

func (p Patch) apply(s Settings) Settings {
	if p.WPM != nil {
		s.WPM = *p.WPM
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.ParagraphPause != nil {
		s.ParagraphPause = *p.ParagraphPause
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s.clamped()
}
