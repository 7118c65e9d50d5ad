// SPDX-License-Identifier: MPL-2.0

// Package cache persists extracted rules per (mod, major version) together
// with a fingerprint of the effective configuration that produced them.
//
// A record is trusted only when its fingerprint matches and its rule list is
// non-empty. Anything else, including unreadable or malformed files, is a miss.
package cache
