// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"

	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/resolve"
)

// fingerprintInput is the canonical form hashed by Fingerprint. Field order is
// fixed by the struct, so the encoding is stable across runs.
type fingerprintInput struct {
	Major                modspec.MajorVersion   `json:"major"`
	MinecraftVersion     string                 `json:"minecraft_version"`
	PrinterVersion       modspec.PrinterVersion `json:"printer_version"`
	Entrypoint           *string                `json:"entrypoint"`
	SettingsManager      *string                `json:"settings_manager"`
	SettingsManagerClass string                 `json:"settings_manager_class"`
	RuleAnnotationClass  string                 `json:"rule_annotation_class"`
	SettingsClasses      []string               `json:"settings_classes"`
	RunMode              modspec.RunMode        `json:"run_mode"`
	Dependencies         []string               `json:"dependencies"`
	Source               modspec.Source         `json:"source"`
}

// Fingerprint returns a 64-bit non-cryptographic hash of every resolved field
// that influences extraction. Unset optional fields hash differently from any
// set value.
func Fingerprint(eff *resolve.Effective) uint64 {
	input := fingerprintInput{
		Major:                eff.Major,
		MinecraftVersion:     eff.MinecraftVersion(),
		PrinterVersion:       eff.PrinterVersion(),
		Entrypoint:           optional(eff.Entrypoint),
		SettingsManager:      optional(eff.SettingsManager),
		SettingsManagerClass: eff.SettingsManagerClass.Value,
		RuleAnnotationClass:  eff.RuleAnnotationClass.Value,
		SettingsClasses:      eff.SettingsClasses.Value,
		RunMode:              eff.RunMode.Value,
		Dependencies:         eff.Dependencies,
		Source:               eff.Source(),
	}
	if input.Dependencies == nil {
		input.Dependencies = []string{}
	}

	// Marshalling a struct of strings and slices cannot fail.
	data, _ := json.Marshal(input) //nolint:errchkjson // static shape
	return xxhash.Sum64(data)
}

func optional(f resolve.Field[string]) *string {
	if !f.IsSet() {
		return nil
	}
	v := f.Value
	return &v
}
