// SPDX-License-Identifier: MPL-2.0

// Package probe synthesizes the Java sources injected into a staged project
// to dump the rules of a mod at runtime, and patches the project manifests
// that register them.
//
// Sources are rendered from embedded templates with named slots. The slots a
// template uses are discovered from its parse tree, so a template that lacks a
// slot its printer version needs is rejected instead of silently rendering
// without it.
package probe
