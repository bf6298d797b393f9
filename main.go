//go:build !gui

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

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

type styles struct {
	wordEdge lipgloss.Style
	orp      lipgloss.Style
	gap      lipgloss.Style
	status   lipgloss.Style
	controls lipgloss.Style
	paused   lipgloss.Style
	complete lipgloss.Style
}

func newStyles(theme session.Theme) styles {
	edge := lipgloss.Color("#FFFFFF")
	dim := lipgloss.Color("#888888")
	faint := lipgloss.Color("#666666")
	if theme == session.ThemeLight {
		edge = lipgloss.Color("#000000")
		dim = lipgloss.Color("#555555")
		faint = lipgloss.Color("#777777")
	}
	return styles{
		wordEdge: lipgloss.NewStyle().Bold(true).Foreground(edge),
		orp:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		gap:      lipgloss.NewStyle().Foreground(dim),
		status:   lipgloss.NewStyle().Foreground(dim).Padding(0, 1),
		controls: lipgloss.NewStyle().Foreground(faint).Italic(true),
		paused:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00")).Bold(true),
		complete: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
	}
}

type model struct {
	sess    *session.Session
	store   *state.Store // nil when reading from stdin
	docPath string       // empty when reading from stdin

	bar     progress.Model
	jump    textinput.Model
	jumping bool

	styles   styles
	width    int
	height   int
	quitting bool
}

type tickMsg struct {
	gen int
}

func tick(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func newModel(sess *session.Session, store *state.Store, docPath string) model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	jump := textinput.New()
	jump.Placeholder = "word number"
	jump.CharLimit = 8
	jump.Width = 14

	return model{
		sess:    sess,
		store:   store,
		docPath: docPath,
		bar:     bar,
		jump:    jump,
		styles:  newStyles(sess.Settings().Theme),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd {
	if delay, gen, ok := m.sess.Start(); ok {
		return tick(delay, gen)
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.jumping {
			return m.updateJumpPrompt(msg)
		}

		switch msg.String() {
		case " ":
			if delay, gen, playing := m.sess.TogglePause(); playing {
				return m, tick(delay, gen)
			}
			return m, nil

		case "+", "=", "up":
			return m.adjustWPM(50)

		case "-", "down":
			return m.adjustWPM(-50)

		case "left":
			m.sess.JumpToParagraphStart()
			return m, nil

		case "right":
			m.sess.JumpToNextParagraph()
			return m, nil

		case "b":
			m.sess.Rewind(10)
			return m, nil

		case "r":
			m.sess.Reset()
			return m, nil

		case "g":
			m.jumping = true
			m.jump.SetValue("")
			m.jump.Focus()
			return m, textinput.Blink

		case "q", "Q", "ctrl+c":
			m.saveProgress()
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 6
		if w > 64 {
			w = 64
		}
		if w > 0 {
			m.bar.Width = w
		}
		return m, nil

	case tickMsg:
		if delay, gen, ok := m.sess.Advance(msg.gen); ok {
			return m, tick(delay, gen)
		}
		return m, nil
	}

	return m, nil
}

func (m model) updateJumpPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if n, err := strconv.Atoi(strings.TrimSpace(m.jump.Value())); err == nil {
			m.sess.JumpToWordNumber(n)
		}
		m.jumping = false
		m.jump.Blur()
		return m, nil
	case "esc":
		m.jumping = false
		m.jump.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m model) adjustWPM(delta int) (tea.Model, tea.Cmd) {
	wpm := m.sess.Settings().WPM + delta
	if delay, gen, rearm := m.sess.UpdateSettings(session.Patch{WPM: &wpm}); rearm {
		return m, tick(delay, gen)
	}
	return m, nil
}

func (m *model) saveProgress() {
	idx := m.sess.Close()
	if m.store != nil && m.docPath != "" {
		m.store.Save(m.docPath, idx)
	}
}

func (m model) View() string {
	if m.quitting {
		if m.sess.Snapshot().Finished {
			return m.styles.complete.Render("\n  Reading complete!\n")
		}
		return ""
	}

	snap := m.sess.Snapshot()

	pause := ""
	if snap.State == session.Paused || snap.State == session.Idle {
		pause = m.styles.paused.Render(" [PAUSED]")
	}
	status := m.styles.status.Render(
		fmt.Sprintf("Word %d/%d | %d WPM | ETA %s%s",
			snap.WordsRead,
			snap.WordCount,
			snap.WPM,
			formatETA(snap.ETA),
			pause,
		),
	)

	var line string
	switch {
	case snap.State == session.Finished:
		line = center(m.styles.complete.Render("Reading complete!"), m.width)
	case snap.Gap:
		line = center(m.styles.gap.Render("· · ·"), m.width)
	case snap.Word != "":
		line = anchorORP(m.formatWord(snap.Word), snap.Word, m.width)
	}

	pct := 0.0
	if snap.WordCount > 0 {
		pct = float64(snap.WordsRead) / float64(snap.WordCount)
	}
	barLine := center(m.bar.ViewAs(pct), m.width)

	bottom := m.styles.controls.Render(
		"SPACE: pause  ↑/↓: speed  ←/→: paragraph  B: back 10  G: go to word  R: restart  Q: quit")
	if m.jumping {
		bottom = "Jump to word: " + m.jump.View() + m.styles.controls.Render("  (enter: go, esc: cancel)")
	}

	// Status, bar and controls take a line each; center the word in the rest.
	avail := m.height - 3
	if avail < 1 {
		avail = 1
	}
	vPad := avail / 2

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteString("\n")
	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(line)
	for i := 0; i < avail-vPad; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(barLine)
	sb.WriteString("\n")
	sb.WriteString(bottom)

	return sb.String()
}

// formatWord renders a word with its optimal recognition point highlighted.
func (m model) formatWord(word string) string {
	runes := []rune(word)
	orp := doc.ORPIndex(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}

	before := string(runes[:orp])
	focus := string(runes[orp])
	after := ""
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}

	return m.styles.wordEdge.Render(before) +
		m.styles.orp.Render(focus) +
		m.styles.wordEdge.Render(after)
}

// anchorORP pads the rendered word so its recognition point sits on the
// terminal centerline.
func anchorORP(rendered, word string, width int) string {
	pad := width/2 - doc.ORPIndex(word)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + rendered
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// formatETA renders a remaining-time estimate as minutes, with hours split
// out past sixty.
func formatETA(d time.Duration) string {
	mins := int(d.Minutes())
	if mins >= 60 {
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute (100-1000)")
	pauseSec := flag.Float64("pause", 1.0, "Paragraph pause in seconds (0-5)")
	theme := flag.String("theme", "light", "Color theme: light or dark")
	fresh := flag.Bool("fresh", false, "Ignore saved reading position")
	listRecent := flag.Bool("recent", false, "List recently read documents and exit")
	clearSaved := flag.Bool("clear", false, "Clear saved progress (for the given file, or all) and exit")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Riffle - Speed Reader for PDF and EPUB\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  riffle [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: %s\n", strings.Join(doc.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  riffle book.epub            Resume reading at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  riffle -w 500 paper.pdf     Read at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  riffle -recent              Show reading list\n")
		fmt.Fprintf(os.Stderr, "  cat notes.txt | riffle      Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Pause/play\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓ +/-  Speed up/down by 50 WPM\n")
		fmt.Fprintf(os.Stderr, "  ←/→      Paragraph start / next paragraph\n")
		fmt.Fprintf(os.Stderr, "  B        Back 10 words\n")
		fmt.Fprintf(os.Stderr, "  G        Go to word number\n")
		fmt.Fprintf(os.Stderr, "  R        Restart from the beginning\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit (position is saved)\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("riffle %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *listRecent {
		for _, e := range state.NewStore().Recent(10) {
			fmt.Printf("%8d  %s\n", e.TokenIndex, e.Path)
		}
		os.Exit(0)
	}

	if *clearSaved {
		store := state.NewStore()
		if flag.NArg() > 0 {
			store.Clear(flag.Arg(0))
		} else {
			store.ClearAll()
		}
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
			fmt.Fprintln(os.Stderr, "Try: riffle -h")
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
	settings.Theme = session.Theme(strings.ToLower(*theme))

	start := 0
	if store != nil && !*fresh {
		if pos := store.Load(docPath); pos > 0 && pos < len(stream.Tokens) {
			start = pos
		}
	}

	m := newModel(session.New(stream, start, settings), store, docPath)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
