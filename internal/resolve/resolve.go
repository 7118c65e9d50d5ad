// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"slices"

	"github.com/RubixDev/carpet-database/internal/modspec"
)

// ErrNoSettingsClasses is returned when neither the version nor the mod names
// any settings classes. There is no built-in default for this field.
var ErrNoSettingsClasses = errors.New("no settings classes specified")

type (
	// Effective is the fully resolved configuration of one (mod, major version) pair.
	Effective struct {
		Mod     *modspec.Mod
		Major   modspec.MajorVersion
		Version modspec.Version

		Entrypoint           Field[string]
		SettingsManager      Field[string]
		SettingsManagerClass Field[string]
		RuleAnnotationClass  Field[string]
		SettingsClasses      Field[[]string]
		RunMode              Field[modspec.RunMode]

		// Dependencies is the mod's common dependencies followed by the
		// version's extra dependencies. Duplicates are kept.
		Dependencies []string

		ModURL     string
		VersionURL string
	}

	// builtinClasses are the printer-specific defaults of the two class fields.
	builtinClasses struct {
		settingsManager string
		ruleAnnotation  string
	}
)

var builtins = map[modspec.PrinterVersion]builtinClasses{
	modspec.PrinterV1: {
		settingsManager: "carpet.settings.SettingsManager",
		ruleAnnotation:  "carpet.settings.Rule",
	},
	modspec.PrinterV2: {
		settingsManager: "carpet.settings.SettingsManager",
		ruleAnnotation:  "carpet.settings.Rule",
	},
	modspec.PrinterV3: {
		settingsManager: "carpet.api.settings.SettingsManager",
		ruleAnnotation:  "carpet.api.settings.Rule",
	},
	modspec.PrinterMagicLibV1: {
		settingsManager: "top.hendrixshen.magiclib.carpet.impl.WrappedSettingManager",
		ruleAnnotation:  "top.hendrixshen.magiclib.carpet.api.annotation.Rule",
	},
	modspec.PrinterMagicLibV2: {
		settingsManager: "top.hendrixshen.magiclib.carpet.impl.WrappedSettingManager",
		ruleAnnotation:  "top.hendrixshen.magiclib.carpet.api.annotation.Rule",
	},
}

// Resolve computes the effective configuration of mod at major.
func Resolve(mod *modspec.Mod, major modspec.MajorVersion) (*Effective, error) {
	v, ok := mod.Versions[string(major)]
	if !ok {
		return nil, fmt.Errorf("mod %q has no version %s", mod.Slug, major)
	}

	builtin, ok := builtins[v.PrinterVersion]
	if !ok {
		return nil, fmt.Errorf("mod %q, version %s: unknown printer version %q", mod.Slug, major, v.PrinterVersion)
	}

	eff := &Effective{
		Mod:     mod,
		Major:   major,
		Version: v,

		Entrypoint: cascade(nonEmptyString[string],
			at(OriginVersion, v.Entrypoint),
			at(OriginPlugin, mod.Entrypoint)),
		SettingsManager: cascade(nonEmptyString[string],
			at(OriginVersion, v.SettingsManager),
			at(OriginPlugin, mod.SettingsManager)),
		SettingsManagerClass: cascade(nonEmptyString[string],
			at(OriginVersion, v.SettingsManagerClass),
			at(OriginPlugin, mod.SettingsManagerClass),
			at(OriginBuiltin, builtin.settingsManager)),
		RuleAnnotationClass: cascade(nonEmptyString[string],
			at(OriginVersion, v.RuleAnnotationClass),
			at(OriginPlugin, mod.RuleAnnotationClass),
			at(OriginBuiltin, builtin.ruleAnnotation)),
		SettingsClasses: cascade(nonEmptyList,
			at(OriginVersion, v.SettingsClasses),
			at(OriginPlugin, mod.SettingsClasses)),
		RunMode: cascade(nonEmptyString[modspec.RunMode],
			at(OriginVersion, v.RunMode),
			at(OriginPlugin, mod.RunMode),
			at(OriginBuiltin, modspec.RunModeServer)),

		Dependencies: slices.Concat(mod.CommonDependencies, v.Dependencies),
		VersionURL:   mod.ReleaseURL(v.Source),
	}

	if !eff.SettingsClasses.IsSet() {
		return nil, fmt.Errorf("mod %q, version %s: %w", mod.Slug, major, ErrNoSettingsClasses)
	}

	modURL, err := mod.URL()
	if err != nil {
		return nil, err
	}
	eff.ModURL = modURL

	return eff, nil
}

// Source returns the artifact source of the resolved version.
func (e *Effective) Source() modspec.Source { return e.Version.Source }

// PrinterVersion returns the probe template generation of the resolved version.
func (e *Effective) PrinterVersion() modspec.PrinterVersion { return e.Version.PrinterVersion }

// MinecraftVersion returns the concrete game version the skeleton is built for.
func (e *Effective) MinecraftVersion() string { return e.Version.MinecraftVersion }
