//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"riffle/internal/doc"
	"riffle/internal/session"
	"riffle/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// player serializes all session access: key handlers run on the fyne
// thread, tick expirations on timer goroutines, and both go through the
// mutex so cursor mutations never overlap.
type player struct {
	mu   sync.Mutex
	sess *session.Session
	snap session.Snapshot
}

func newPlayer(sess *session.Session) *player {
	p := &player{sess: sess, snap: sess.Snapshot()}
	sess.OnStateChange(func(snap session.Snapshot) {
		p.snap = snap
	})
	return p
}

// do runs a session mutation under the lock and returns the resulting
// snapshot.
func (p *player) do(fn func(s *session.Session)) session.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.sess)
	return p.snap
}

// schedule arms a one-shot timer for the next advance. A stale generation
// makes the expired timer a no-op, so timers are never cancelled, only
// outlived.
func (p *player) schedule(delay time.Duration, gen int, refresh func()) {
	time.AfterFunc(delay, func() {
		p.mu.Lock()
		d, g, ok := p.sess.Advance(gen)
		p.mu.Unlock()
		if ok {
			p.schedule(d, g, refresh)
		}
		fyne.Do(refresh)
	})
}

func wordColors(theme session.Theme) (edge, focus color.Color) {
	if theme == session.ThemeDark {
		return color.White, color.RGBA{R: 255, A: 255}
	}
	return color.Black, color.RGBA{R: 200, A: 255}
}

func createWordDisplay(snap session.Snapshot, fontSize float32, theme session.Theme, windowWidth float32) *fyne.Container {
	edgeColor, focusColor := wordColors(theme)

	done := snap.State == session.Finished
	text := snap.Word
	if done {
		text = "Reading complete!"
	} else if snap.Gap {
		text = "· · ·"
	}

	runes := []rune(text)
	orp := 0
	if !done && !snap.Gap && len(runes) > 0 {
		orp = doc.ORPIndex(text)
		if orp >= len(runes) {
			orp = len(runes) - 1
		}
	}

	var before, focus, after string
	if done || snap.Gap {
		before = text
	} else if len(runes) > 0 {
		before = string(runes[:orp])
		focus = string(runes[orp])
		if orp+1 < len(runes) {
			after = string(runes[orp+1:])
		}
	}

	beforeText := canvas.NewText(before, edgeColor)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, focusColor)
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, edgeColor)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	beforeSize := beforeText.MinSize()
	focusSize := focusText.MinSize()

	// Anchor the recognition point at the window centerline.
	centerX := windowWidth / 2
	beforeX := centerX - beforeSize.Width
	focusX := centerX
	afterX := centerX + focusSize.Width

	if beforeX < 0 {
		beforeX = 0
	}

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			focusText,
			afterText,
		},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(focusX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))

	return c
}

type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var maxH float32
	for _, o := range objects {
		size := o.MinSize()
		if size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(0, maxH)
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var maxH float32
	for _, o := range objects {
		objSize := o.MinSize()
		if objSize.Height > maxH {
			maxH = objSize.Height
		}
	}

	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	for _, o := range objects {
		pos := o.Position()
		o.Move(fyne.NewPos(pos.X, y))
		o.Resize(o.MinSize())
	}
}

func formatGUIETA(d time.Duration) string {
	mins := int(d.Minutes())
	if mins >= 60 {
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute (100-1000)")
	pauseSec := flag.Float64("pause", 1.0, "Paragraph pause in seconds (0-5)")
	themeFlag := flag.String("theme", "light", "Color theme: light or dark")
	fresh := flag.Bool("fresh", false, "Ignore saved reading position")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Riffle - Speed Reader for PDF and EPUB (GUI)\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  riffle-gui [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: %s\n", strings.Join(doc.SupportedFormats(), ", "))
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("riffle %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	var (
		stream  *doc.Stream
		docPath string
		store   *state.Store
	)

	if flag.NArg() > 0 {
		var err error
		stream, err = doc.Tokenize(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		docPath = state.Normalize(flag.Arg(0))
		store = state.NewStore()
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe text to stdin.")
			os.Exit(1)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		stream = doc.TokenizeText(string(data))
	}

	if stream.WordCount == 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", doc.ErrNoText)
		os.Exit(1)
	}

	settings := session.DefaultSettings()
	settings.WPM = *wpm
	settings.ParagraphPause = time.Duration(*pauseSec * float64(time.Second))
	settings.Theme = session.Theme(strings.ToLower(*themeFlag))

	start := 0
	if store != nil && !*fresh {
		if pos := store.Load(docPath); pos > 0 && pos < len(stream.Tokens) {
			start = pos
		}
	}

	p := newPlayer(session.New(stream, start, settings))

	a := app.New()
	w := a.NewWindow("riffle - Speed Reader")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	controlsLabel := widget.NewLabel("SPACE: pause  ↑/↓: speed  ←/→: paragraph  B: back 10  +/-: font  R: restart  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	wordContainer := container.NewStack()

	// The seek slider maps pointer position to a direct token index seek.
	var syncingSlider bool
	seekSlider := widget.NewSlider(0, float64(len(stream.Tokens)))
	seekSlider.Step = 1

	var updateDisplay func()
	updateDisplay = func() {
		p.mu.Lock()
		snap := p.snap
		fontSize := float32(p.sess.Settings().FontSize)
		theme := p.sess.Settings().Theme
		index := p.sess.Index()
		p.mu.Unlock()

		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}

		wordContainer.Objects = []fyne.CanvasObject{
			createWordDisplay(snap, fontSize, theme, canvasWidth),
		}
		wordContainer.Refresh()

		pauseText := ""
		if snap.State == session.Paused || snap.State == session.Idle {
			pauseText = " [PAUSED]"
		}
		statusLabel.SetText(fmt.Sprintf("Word %d/%d | %d WPM | ETA %s%s",
			snap.WordsRead, snap.WordCount, snap.WPM, formatGUIETA(snap.ETA), pauseText))

		syncingSlider = true
		seekSlider.SetValue(float64(index))
		syncingSlider = false
	}

	seekSlider.OnChanged = func(v float64) {
		if syncingSlider {
			return
		}
		p.do(func(s *session.Session) {
			s.JumpToTokenIndex(int(v))
		})
		updateDisplay()
	}

	saveProgress := func() {
		p.mu.Lock()
		idx := p.sess.Close()
		p.mu.Unlock()
		if store != nil && docPath != "" {
			store.Save(docPath, idx)
		}
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			p.mu.Lock()
			delay, gen, playing := p.sess.TogglePause()
			p.mu.Unlock()
			if playing {
				p.schedule(delay, gen, updateDisplay)
			}
			updateDisplay()

		case fyne.KeyUp, fyne.KeyDown:
			delta := 50
			if key.Name == fyne.KeyDown {
				delta = -50
			}
			p.mu.Lock()
			next := p.sess.Settings().WPM + delta
			delay, gen, rearm := p.sess.UpdateSettings(session.Patch{WPM: &next})
			p.mu.Unlock()
			if rearm {
				p.schedule(delay, gen, updateDisplay)
			}
			updateDisplay()

		case fyne.KeyLeft:
			p.do(func(s *session.Session) { s.JumpToParagraphStart() })
			updateDisplay()

		case fyne.KeyRight:
			p.do(func(s *session.Session) { s.JumpToNextParagraph() })
			updateDisplay()

		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())

		case fyne.KeyQ:
			saveProgress()
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'b', 'B':
			p.do(func(s *session.Session) { s.Rewind(10) })
			updateDisplay()

		case 'r', 'R':
			p.do(func(s *session.Session) { s.Reset() })
			if store != nil && docPath != "" {
				store.Clear(docPath)
			}
			updateDisplay()

		case '+', '=':
			p.mu.Lock()
			next := p.sess.Settings().FontSize + 5
			p.sess.UpdateSettings(session.Patch{FontSize: &next})
			p.mu.Unlock()
			updateDisplay()

		case '-':
			p.mu.Lock()
			next := p.sess.Settings().FontSize - 5
			p.sess.UpdateSettings(session.Patch{FontSize: &next})
			p.mu.Unlock()
			updateDisplay()
		}
	})

	content := container.NewBorder(
		statusLabel,
		container.NewVBox(seekSlider, controlsLabel),
		nil, nil,
		wordContainer,
	)

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(content)

	w.SetOnClosed(func() {
		saveProgress()
	})

	// Initialize first word after window shows, then start playback.
	go func() {
		time.Sleep(100 * time.Millisecond)
		fyne.Do(updateDisplay)
		p.mu.Lock()
		delay, gen, ok := p.sess.Start()
		p.mu.Unlock()
		if ok {
			p.schedule(delay, gen, updateDisplay)
		}
		fyne.Do(updateDisplay)
	}()

	w.ShowAndRun()
}
