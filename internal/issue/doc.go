// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Errors carry the operation that failed, the plugin/version pair or file
// involved, and remediation hints. A small catalog of Markdown guidance pages
// is rendered with glamour when a failure maps to a known issue.
package issue
