// SPDX-License-Identifier: MPL-2.0

// Package modspec holds the static description of the mods whose rules are
// extracted (one Mod per project, one Version per Minecraft major version)
// and the rule records produced by the in-game probe.
//
// The document is loaded once at startup from TOML or CUE and validated
// against the embedded schema; values are never mutated afterwards.
package modspec
