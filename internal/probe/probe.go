// SPDX-License-Identifier: MPL-2.0

package probe

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/RubixDev/carpet-database/internal/modspec"
	"github.com/RubixDev/carpet-database/internal/resolve"
)

const (
	// PrimarySettingsManager is the accessor expression of Carpet's own manager.
	PrimarySettingsManager = "carpet.CarpetServer.settingsManager"
	// PrivateSettingsManager is the accessor expression of the generated shim.
	PrivateSettingsManager = "mixin.PrivateSettingsManagerAccessor.getSettingsManager()"

	// Paths of the generated sources, relative to the staged project.
	PrinterPath         = "src/main/java/Printer.java"
	BaseAccessorPath    = "src/main/java/mixin/SettingsManagerAccessor.java"
	PrivateAccessorPath = "src/main/java/mixin/PrivateSettingsManagerAccessor.java"

	BaseAccessorMixin    = "SettingsManagerAccessor"
	PrivateAccessorMixin = "PrivateSettingsManagerAccessor"
)

var (
	// ErrInvalidLocator is returned when a settings manager locator cannot be
	// split into a class path and a field name.
	ErrInvalidLocator = errors.New("invalid settings manager locator")

	// ErrLocatorRequired is returned for printer versions that read rules
	// from a private settings manager when no locator is configured.
	ErrLocatorRequired = errors.New("printer version requires a settings_manager locator")

	//go:embed templates/*.java.tmpl
	templateFS embed.FS

	loadTemplates = sync.OnceValues(parseEmbedded)
)

// bootstrapEntrypoints always follow the mod's own entrypoint.
var bootstrapEntrypoints = []string{"carpet.CarpetServer::onGameStarted", "Printer::print"}

type (
	// Probe is the set of sources and manifest values for one staged project.
	Probe struct {
		// Files maps project-relative paths to their content.
		Files map[string]string
		// Mixins lists the injection points to register, in order.
		Mixins []string
		// Entrypoints is the main entrypoint list of the mod manifest.
		Entrypoints []string
	}

	// templateSet holds every embedded template by file stem.
	templateSet map[string]*Template
)

// printerRequirements lists the slots each printer template must use.
var printerRequirements = map[modspec.PrinterVersion][]Slot{
	modspec.PrinterV1:         {SlotSettingsManagers, SlotRuleAnnotation, SlotSettingsClasses},
	modspec.PrinterV2:         {SlotSettingsManagers, SlotRuleAnnotation, SlotSettingsClasses},
	modspec.PrinterV3:         {SlotSettingsManagers, SlotRuleAnnotation, SlotSettingsClasses},
	modspec.PrinterMagicLibV1: {SlotSettingsManager, SlotRuleAnnotation, SlotSettingsClasses},
	modspec.PrinterMagicLibV2: {SlotSettingsManager, SlotRuleAnnotation, SlotSettingsClasses},
}

var privateAccessorRequirements = []Slot{SlotAccessorTarget, SlotAccessorField, SlotSettingsManagerClass}

// SplitLocator splits "a.b.C.field" at the rightmost dot into the class path
// "a.b.C" and the field name "field".
func SplitLocator(locator string) (classPath, field string, err error) {
	i := strings.LastIndexByte(locator, '.')
	if i <= 0 || i == len(locator)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}
	return locator[:i], locator[i+1:], nil
}

// Synthesize renders the probe of eff.
func Synthesize(eff *resolve.Effective) (*Probe, error) {
	set, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	printer := eff.PrinterVersion()
	printerTmpl, ok := set["printer_"+printer.String()]
	if !ok {
		return nil, fmt.Errorf("no printer template for %s", printer)
	}
	if err := printerTmpl.Require(printerRequirements[printer]...); err != nil {
		return nil, err
	}

	p := &Probe{Files: make(map[string]string)}

	if printer == modspec.PrinterV1 {
		base, err := set["settings_manager_accessor"].Render(nil)
		if err != nil {
			return nil, err
		}
		p.Files[BaseAccessorPath] = base
		p.Mixins = append(p.Mixins, BaseAccessorMixin)
	}

	values := Values{
		SlotRuleAnnotation:       eff.RuleAnnotationClass.Value,
		SlotSettingsClasses:      classLiterals(eff.SettingsClasses.Value),
		SlotSettingsManagerClass: eff.SettingsManagerClass.Value,
	}
	managers := []string{PrimarySettingsManager}

	if eff.SettingsManager.IsSet() {
		classPath, field, err := SplitLocator(eff.SettingsManager.Value)
		if err != nil {
			return nil, err
		}
		values[SlotAccessorTarget] = classPath
		values[SlotAccessorField] = field

		accessorTmpl := set["private_accessor"]
		if err := accessorTmpl.Require(privateAccessorRequirements...); err != nil {
			return nil, err
		}
		accessor, err := accessorTmpl.Render(values)
		if err != nil {
			return nil, err
		}
		p.Files[PrivateAccessorPath] = accessor
		p.Mixins = append(p.Mixins, PrivateAccessorMixin)

		managers = append(managers, PrivateSettingsManager)
		values[SlotSettingsManager] = PrivateSettingsManager
	} else if printer.IsMagicLib() {
		return nil, fmt.Errorf("%w (%s)", ErrLocatorRequired, printer)
	}
	values[SlotSettingsManagers] = strings.Join(managers, ", ")

	source, err := printerTmpl.Render(values)
	if err != nil {
		return nil, err
	}
	p.Files[PrinterPath] = source

	if eff.Entrypoint.IsSet() {
		p.Entrypoints = append(p.Entrypoints, eff.Entrypoint.Value)
	}
	p.Entrypoints = append(p.Entrypoints, bootstrapEntrypoints...)

	return p, nil
}

func classLiterals(classes []string) string {
	literals := make([]string, len(classes))
	for i, c := range classes {
		literals[i] = c + ".class"
	}
	return strings.Join(literals, ", ")
}

func parseEmbedded() (templateSet, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	set := make(templateSet, len(entries))
	for _, entry := range entries {
		data, err := templateFS.ReadFile(path.Join("templates", entry.Name()))
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(entry.Name(), ".java.tmpl")
		tmpl, err := ParseTemplate(stem, string(data))
		if err != nil {
			return nil, err
		}
		set[stem] = tmpl
	}
	return set, nil
}
