// SPDX-License-Identifier: MPL-2.0

// Package supervise runs the game inside a staged project and captures its
// output.
//
// Standard output is mirrored line by line. On an interactive terminal only
// the most recent lines are shown, redrawn in place; the full log is always
// retained. Standard error is buffered in full.
package supervise
