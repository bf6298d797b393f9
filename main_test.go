//go:build !gui

package main

import (
	"strings"
	"testing"
	"time"

	"riffle/internal/doc"
	"riffle/internal/session"
)

func TestFormatETA(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Second, "0m"},
		{3 * time.Minute, "3m"},
		{59 * time.Minute, "59m"},
		{60 * time.Minute, "1h 0m"},
		{63 * time.Minute, "1h 3m"},
		{125 * time.Minute, "2h 5m"},
	}
	for _, tt := range tests {
		if got := formatETA(tt.d); got != tt.want {
			t.Errorf("formatETA(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestAnchorORP(t *testing.T) {
	// A five-letter word has its recognition point at rune 1; anchoring at
	// the centerline of an 80-column terminal pads 39 spaces.
	got := anchorORP("plain", "plain", 80)
	if !strings.HasPrefix(got, strings.Repeat(" ", 39)+"p") {
		t.Errorf("anchorORP padding wrong: %q", got)
	}

	// Narrow terminals never pad negatively.
	got = anchorORP("word", "word", 0)
	if got != "word" {
		t.Errorf("anchorORP at width 0 = %q", got)
	}
}

func TestCenter(t *testing.T) {
	if got := center("ab", 10); got != "    ab" {
		t.Errorf("center = %q", got)
	}
	if got := center("toolongtext", 4); got != "toolongtext" {
		t.Errorf("center must not truncate: %q", got)
	}
}

func TestInitStartsPlayback(t *testing.T) {
	stream := doc.TokenizeText("Hello world.\n\nGoodbye.")
	m := newModel(session.New(stream, 0, session.DefaultSettings()), nil, "")

	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should schedule the first tick")
	}
	if m.sess.State() != session.Playing {
		t.Errorf("state after Init = %v, want playing", m.sess.State())
	}
}

func TestTickMessagesDriveSessionToCompletion(t *testing.T) {
	stream := doc.TokenizeText("Hello world.\n\nGoodbye.")
	m := newModel(session.New(stream, 0, session.DefaultSettings()), nil, "")

	_, gen, ok := m.sess.Start()
	if !ok {
		t.Fatal("Start refused")
	}

	// Feed ticks the way the bubbletea loop would until the stream runs
	// out. Successful advances keep the generation, so one tag serves the
	// whole run.
	for i := 0; i < 10 && m.sess.State() == session.Playing; i++ {
		next, _ := m.Update(tickMsg{gen: gen})
		m = next.(model)
	}
	if m.sess.State() != session.Finished {
		t.Errorf("state = %v, want finished", m.sess.State())
	}
	if got := m.sess.Snapshot().WordsRead; got != 3 {
		t.Errorf("wordsRead = %d, want 3", got)
	}
}
