// SPDX-License-Identifier: MPL-2.0

// Package registry talks to the artifact hosts mods are published on:
// Modrinth (maven and API), CurseForge through the cfwidget mirror, and
// GitHub release downloads. All requests are plain GETs without retries.
package registry
