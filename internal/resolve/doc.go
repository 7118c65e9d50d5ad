// SPDX-License-Identifier: MPL-2.0

// Package resolve computes the effective configuration of one mod version by
// cascading version overrides over mod defaults and printer-specific
// built-in defaults.
//
// Every cascaded field records where its value came from (see Origin), so the
// precedence rules can be asserted in isolation from the rest of the pipeline.
package resolve
