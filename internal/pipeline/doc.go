// SPDX-License-Identifier: MPL-2.0

// Package pipeline drives extraction for every mod/version pair of the mods
// document and hands the results to consolidation.
//
// Pairs run strictly one after another because they share a single staging
// directory. For each pair the effective configuration is resolved and
// fingerprinted; a fresh cache record short-circuits extraction. Otherwise the
// probe is synthesized, the project staged, the build supervised and the
// rules file it leaves behind is read, validated and cached.
package pipeline
