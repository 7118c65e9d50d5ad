// SPDX-License-Identifier: MPL-2.0

// Command carpetdb extracts the configuration rules of Carpet mods and
// consolidates them into a searchable dataset.
package main

func main() {
	Execute()
}
