// SPDX-License-Identifier: MPL-2.0

package supervise

import (
	"fmt"
	"strings"
)

// DefaultWindowSize is the number of lines shown on an interactive terminal.
const DefaultWindowSize = 15

const (
	disableWrap = "\x1b[?7l"
	enableWrap  = "\x1b[?7h"
	clearBelow  = "\r\x1b[0J"
)

// Window renders a scrolling view of a growing log. All methods are pure:
// they return the escape sequences and text to write and keep no state.
//
// A non-interactive window is unbounded: every line is printed once as it
// arrives and no escape sequences are emitted.
type Window struct {
	Size        int
	Interactive bool
}

// NewWindow returns the window for a terminal of the given capability.
func NewWindow(interactive bool) Window {
	return Window{Size: DefaultWindowSize, Interactive: interactive}
}

func (w Window) bounded() bool { return w.Interactive && w.Size > 0 }

// Begin reserves the window area.
func (w Window) Begin() string {
	if !w.bounded() {
		return ""
	}
	return disableWrap + strings.Repeat("\n", w.Size)
}

// Frame renders the window after the last line of log was added.
func (w Window) Frame(log []string) string {
	if !w.bounded() {
		if len(log) == 0 {
			return ""
		}
		return w.Line(log[len(log)-1])
	}

	visible := log[max(0, len(log)-w.Size):]

	var b strings.Builder
	b.WriteString(w.up())
	for _, line := range visible {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("\n", w.Size-len(visible)))
	return b.String()
}

// End clears the window area and restores line wrapping.
func (w Window) End() string {
	if !w.bounded() {
		return ""
	}
	return enableWrap + w.up()
}

// Line renders one line of an unbounded window.
func (w Window) Line(line string) string { return line + "\n" }

func (w Window) up() string {
	return fmt.Sprintf("\x1b[%dA", w.Size) + clearBelow
}
