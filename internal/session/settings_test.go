package session

import (
	"testing"
	"time"
)

func TestSettingsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "defaults pass through",
			in:   DefaultSettings(),
			want: Settings{WPM: 300, FontSize: 72, ParagraphPause: time.Second, Theme: ThemeLight},
		},
		{
			name: "below range",
			in:   Settings{WPM: 10, FontSize: 5, ParagraphPause: -time.Second},
			want: Settings{WPM: 100, FontSize: 24, ParagraphPause: 0, Theme: ThemeLight},
		},
		{
			name: "above range",
			in:   Settings{WPM: 5000, FontSize: 900, ParagraphPause: time.Minute, Theme: ThemeDark},
			want: Settings{WPM: 1000, FontSize: 200, ParagraphPause: 5 * time.Second, Theme: ThemeDark},
		},
		{
			name: "unknown theme falls back to light",
			in:   Settings{WPM: 300, FontSize: 72, Theme: Theme("solarized")},
			want: Settings{WPM: 300, FontSize: 72, Theme: ThemeLight},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.clamped(); got != tt.want {
				t.Errorf("clamped() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		wpm  int
		want time.Duration
	}{
		{300, 200 * time.Millisecond},
		{100, 600 * time.Millisecond},
		{1000, 60 * time.Millisecond},
		{450, 133 * time.Millisecond},
		{0, 0},
	}
	for _, tt := range tests {
		s := Settings{WPM: tt.wpm}
		if got := s.Interval(); got != tt.want {
			t.Errorf("Interval at %d WPM = %v, want %v", tt.wpm, got, tt.want)
		}
	}
}

func TestPatchApply(t *testing.T) {
	base := DefaultSettings()

	wpm := 450
	got := Patch{WPM: &wpm}.apply(base)
	if got.WPM != 450 {
		t.Errorf("WPM = %d, want 450", got.WPM)
	}
	if got.FontSize != base.FontSize || got.Theme != base.Theme || got.ParagraphPause != base.ParagraphPause {
		t.Errorf("untouched fields changed: %+v", got)
	}

	// Patched values are clamped too.
	wpm = 9999
	pause := time.Hour
	got = Patch{WPM: &wpm, ParagraphPause: &pause}.apply(base)
	if got.WPM != 1000 || got.ParagraphPause != 5*time.Second {
		t.Errorf("clamping on patch: %+v", got)
	}
}
