// SPDX-License-Identifier: MPL-2.0

// Package staging materializes the working copy of a version's project
// skeleton that the probe is injected into and the game is booted from.
//
// There is exactly one working copy. It is removed and recreated from the
// pristine skeleton before every extraction, so extractions must not run
// concurrently.
package staging
