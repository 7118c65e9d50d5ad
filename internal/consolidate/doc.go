// SPDX-License-Identifier: MPL-2.0

// Package consolidate merges the rules extracted for every (mod, major
// version) pair into one deduplicated dataset and summarizes it.
package consolidate
