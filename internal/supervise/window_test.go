// SPDX-License-Identifier: MPL-2.0

package supervise

import (
	"strings"
	"testing"
)

func TestWindow_Interactive(t *testing.T) {
	t.Parallel()

	w := Window{Size: 3, Interactive: true}

	if got, want := w.Begin(), "\x1b[?7l\n\n\n"; got != want {
		t.Errorf("Begin() = %q, want %q", got, want)
	}

	tests := []struct {
		name string
		log  []string
		want string
	}{
		{"one line pads", []string{"a"}, "\x1b[3A\r\x1b[0Ja\n\n\n"},
		{"full", []string{"a", "b", "c"}, "\x1b[3A\r\x1b[0Ja\nb\nc\n"},
		{"scrolls", []string{"a", "b", "c", "d", "e"}, "\x1b[3A\r\x1b[0Jc\nd\ne\n"},
	}
	for _, tt := range tests {
		if got := w.Frame(tt.log); got != tt.want {
			t.Errorf("%s: Frame() = %q, want %q", tt.name, got, tt.want)
		}
	}

	if got, want := w.End(), "\x1b[?7h\x1b[3A\r\x1b[0J"; got != want {
		t.Errorf("End() = %q, want %q", got, want)
	}
}

func TestWindow_FrameHeightIsConstant(t *testing.T) {
	t.Parallel()

	w := NewWindow(true)
	var log []string
	for i := range 40 {
		log = append(log, strings.Repeat("x", i))
		frame := w.Frame(log)
		if n := strings.Count(frame, "\n"); n != DefaultWindowSize {
			t.Fatalf("frame %d spans %d lines, want %d", i, n, DefaultWindowSize)
		}
	}
}

func TestWindow_NonInteractive(t *testing.T) {
	t.Parallel()

	w := NewWindow(false)
	if w.Begin() != "" || w.End() != "" {
		t.Error("non-interactive window should not emit escape sequences")
	}
	if got := w.Frame([]string{"a", "b"}); got != "b\n" {
		t.Errorf("Frame() = %q, want only the newest line", got)
	}
	if got := w.Frame(nil); got != "" {
		t.Errorf("Frame(nil) = %q", got)
	}
}
