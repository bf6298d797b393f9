// Package session implements the reading-session state machine: timed
// word-by-word playback over a token stream, navigation, and derived
// display state.
//
// The session owns no timer. Playback methods hand the caller a delay and
// a generation number; the caller schedules a tick and feeds the
// generation back through Advance. Every pause, seek, or timing-relevant
// settings change bumps the generation, so a tick armed before the
// mutation is rejected when it lands. This replaces the usual one-shot
// paragraph-pause callback with state that later operations can cancel.
package session

import (
	"time"

	"riffle/internal/doc"
)

// State is the playback state of a Session.
type State int

const (
	Idle State = iota // cursor at start position, never played
	Playing
	Paused
	Finished // cursor ran past the end of the stream
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Snapshot is the derived display state after a cursor or settings change.
type Snapshot struct {
	State     State
	Word      string // current word; empty on a paragraph gap or past the end
	Gap       bool   // cursor is sitting on a paragraph break
	Finished  bool   // cursor index has reached len(stream)
	WordsRead int
	WordCount int
	WPM       int
	ETA       time.Duration // remaining reading time at the current WPM
}

// Session is a single reading activity over one token stream. It is not
// safe for concurrent use; callers serialize access (the TUI through the
// bubbletea loop, the GUI through a mutex).
type Session struct {
	stream    *doc.Stream
	index     int // next token to consume; len(stream.Tokens) means finished
	wordsRead int
	curWord   string
	curGap    bool
	state     State
	settings  Settings
	gen       int
	onChange  func(Snapshot)
}

// New creates a session positioned at startIndex (clamped to the stream).
func New(stream *doc.Stream, startIndex int, settings Settings) *Session {
	s := &Session{stream: stream, settings: settings.clamped(), state: Idle}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > len(stream.Tokens) {
		startIndex = len(stream.Tokens)
	}
	s.index = startIndex
	s.wordsRead = stream.CountWords(0, startIndex)
	s.syncCurrent()
	return s
}

// OnStateChange registers an observer invoked with a fresh Snapshot after
// every cursor, state, or settings mutation.
func (s *Session) OnStateChange(fn func(Snapshot)) {
	s.onChange = fn
}

// Snapshot returns the current derived display state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Word:      s.curWord,
		Gap:       s.curGap,
		Finished:  s.index >= len(s.stream.Tokens),
		WordsRead: s.wordsRead,
		WordCount: s.stream.WordCount,
		WPM:       s.settings.WPM,
	}
	if s.settings.WPM > 0 {
		remaining := float64(s.stream.WordCount - s.wordsRead)
		snap.ETA = time.Duration(remaining / float64(s.settings.WPM) * float64(time.Minute))
	}
	return snap
}

// Settings returns the session's current settings.
func (s *Session) Settings() Settings { return s.settings }

// State returns the playback state.
func (s *Session) State() State { return s.state }

// Index returns the cursor's token index.
func (s *Session) Index() int { return s.index }

// Start begins playback from Idle or Paused. It returns the delay until
// the first tick and the generation that tick must carry; ok is false when
// the session is already playing or finished.
func (s *Session) Start() (delay time.Duration, gen int, ok bool) {
	if s.state != Idle && s.state != Paused {
		return 0, s.gen, false
	}
	s.state = Playing
	s.gen++
	s.notify()
	return s.settings.Interval(), s.gen, true
}

// TogglePause flips between Playing and Paused. When the result is
// playing, the caller schedules a tick with the returned delay and
// generation.
func (s *Session) TogglePause() (delay time.Duration, gen int, playing bool) {
	switch s.state {
	case Playing:
		s.state = Paused
		s.gen++
		s.notify()
		return 0, s.gen, false
	case Idle, Paused:
		return s.Start()
	}
	return 0, s.gen, false
}

// Advance consumes one token in response to a timer tick. Ticks carrying a
// stale generation, or arriving when the session is no longer Playing, are
// ignored. Consuming a word returns the regular interval; consuming a
// paragraph break returns the paragraph pause instead, suspending regular
// advancement for its duration. ok is false when the tick was ignored or
// the stream is exhausted.
func (s *Session) Advance(gen int) (delay time.Duration, gen2 int, ok bool) {
	if gen != s.gen || s.state != Playing {
		return 0, s.gen, false
	}
	if s.index >= len(s.stream.Tokens) {
		s.state = Finished
		s.gen++
		s.curWord, s.curGap = "", false
		s.notify()
		return 0, s.gen, false
	}

	tok := s.stream.Tokens[s.index]
	s.index++
	if tok.Kind == doc.Word {
		s.curWord, s.curGap = tok.Text, false
		s.wordsRead++
		delay = s.settings.Interval()
	} else {
		s.curWord, s.curGap = "", true
		delay = s.settings.ParagraphPause
	}
	s.notify()
	return delay, s.gen, true
}

// Reset seeks back to the beginning of the stream.
func (s *Session) Reset() {
	s.seek(func() {
		s.index = 0
		s.wordsRead = 0
	})
}

// Rewind moves the cursor back n words (10 when n <= 0), stopping at the
// start of the stream. Paragraph breaks passed on the way do not count
// against the budget.
func (s *Session) Rewind(n int) {
	if n <= 0 {
		n = 10
	}
	s.seek(func() {
		budget := n
		for budget > 0 && s.index > 0 {
			s.index--
			if s.stream.Tokens[s.index].Kind == doc.Word {
				budget--
			}
		}
		s.wordsRead -= n - budget
		if s.wordsRead < 0 {
			s.wordsRead = 0
		}
	})
}

// JumpToParagraphStart seeks to the first word of the current paragraph:
// one past the previous break, or the start of the stream. A cursor
// already at a paragraph start stays put.
func (s *Session) JumpToParagraphStart() {
	s.seek(func() {
		passed := 0
		for s.index > 0 {
			prev := s.stream.Tokens[s.index-1]
			if prev.Kind == doc.ParagraphBreak {
				break
			}
			s.index--
			if prev.Kind == doc.Word {
				passed++
			}
		}
		s.wordsRead -= passed
		if s.wordsRead < 0 {
			s.wordsRead = 0
		}
	})
}

// JumpToNextParagraph seeks to one past the next break, or the end of the
// stream when the cursor is already in the last paragraph.
func (s *Session) JumpToNextParagraph() {
	s.seek(func() {
		skipped := 0
		for s.index < len(s.stream.Tokens) && s.stream.Tokens[s.index].Kind != doc.ParagraphBreak {
			if s.stream.Tokens[s.index].Kind == doc.Word {
				skipped++
			}
			s.index++
		}
		if s.index < len(s.stream.Tokens) {
			s.index++ // past the break
		}
		s.wordsRead += skipped
		if s.wordsRead > s.stream.WordCount {
			s.wordsRead = s.stream.WordCount
		}
	})
}

// JumpToWordNumber seeks to the n-th word, 1-based over Word tokens only.
// n is clamped to [1, WordCount].
func (s *Session) JumpToWordNumber(n int) {
	s.seek(func() {
		if s.stream.WordCount == 0 {
			s.index = 0
			s.wordsRead = 0
			return
		}
		n = clampInt(n, 1, s.stream.WordCount)
		count := 0
		for i, tok := range s.stream.Tokens {
			if tok.Kind != doc.Word {
				continue
			}
			count++
			if count == n {
				s.index = i
				s.wordsRead = n - 1
				return
			}
		}
	})
}

// JumpToTokenIndex seeks directly to a token index, clamped to the stream.
func (s *Session) JumpToTokenIndex(i int) {
	s.seek(func() {
		if i < 0 {
			i = 0
		}
		if i > len(s.stream.Tokens) {
			i = len(s.stream.Tokens)
		}
		s.index = i
		s.wordsRead = s.stream.CountWords(0, i)
	})
}

// UpdateSettings applies a partial settings change without touching the
// cursor. A WPM or paragraph-pause change invalidates pending ticks; when
// the session is playing the caller re-arms with the returned delay and
// generation.
func (s *Session) UpdateSettings(p Patch) (delay time.Duration, gen int, rearm bool) {
	retime := p.WPM != nil || p.ParagraphPause != nil
	s.settings = p.apply(s.settings)
	if retime {
		s.gen++
	}
	s.notify()
	if retime && s.state == Playing {
		return s.settings.Interval(), s.gen, true
	}
	return 0, s.gen, false
}

// Close stops playback and returns the final token index for persistence.
func (s *Session) Close() int {
	if s.state == Playing {
		s.state = Paused
		s.gen++
		s.notify()
	}
	return s.index
}

// seek stops playback, applies the cursor mutation, and recomputes the
// derived state. The session is left Paused (Finished when the cursor
// landed past the end).
func (s *Session) seek(mutate func()) {
	s.gen++
	s.state = Paused
	mutate()
	s.syncCurrent()
	s.notify()
}

func (s *Session) syncCurrent() {
	if s.index >= len(s.stream.Tokens) {
		s.state = Finished
		s.curWord, s.curGap = "", false
		return
	}
	tok := s.stream.Tokens[s.index]
	if tok.Kind == doc.Word {
		s.curWord, s.curGap = tok.Text, false
	} else {
		s.curWord, s.curGap = "", true
	}
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}
