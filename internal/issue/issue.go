// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InvalidModsDocumentId Id = iota + 1
	StaleCacheId
	BuildFailedId
	DownloadFailedId
	SkeletonGenerationFailedId
	InvalidLocatorId
	MissingSettingsClassesId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance page. An empty style path selects glamour's
// auto style.
func (i *Issue) Render(stylePath string) (string, error) {
	if stylePath == "" {
		return render(string(i.mdMsg), "auto")
	}
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	invalidModsDocumentIssue = &Issue{
		id: InvalidModsDocumentId,
		mdMsg: `
# The mods document could not be loaded

Every mod needs a ` + "`name`" + `, a ` + "`slug`" + ` and at least one entry in ` + "`versions`" + `.
Each version needs a ` + "`minecraft_version`" + `, a ` + "`printer_version`" + ` and exactly one ` + "`source`" + `.

~~~toml
[[mods]]
name = "Carpet Extra"
slug = "carpet-extra"
settings_classes = ["carpetextra.CarpetExtraSettings"]

[mods.versions."1.20"]
minecraft_version = "1.20.4"
printer_version = "v3"
source = { type = "modrinth", version = "1.4.128" }
~~~`,
	}

	staleCacheIssue = &Issue{
		id: StaleCacheId,
		mdMsg: `
# Cached rules are out of date

` + "`carpetdb combine`" + ` only merges rules that were already extracted with the
current configuration. At least one mod/version pair changed since its last
extraction.

## Things you can try
- Run a full extraction first:
~~~
$ carpetdb
~~~
- Or only re-extract the mod that changed:
~~~
$ carpetdb mod:<slug>
~~~`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# The extraction build failed

The staged project in ` + "`tmp/active`" + ` is left in place so it can be inspected.

## Things you can try
- Read the gradle output printed above the error
- Make sure ` + "`settings_classes`" + ` lists the classes carrying the rule annotations
- Try ` + "`run_mode = \"client\"`" + ` for mods that only initialise their settings on the client`,
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# An artifact could not be downloaded

The registry answered with a non-success status. Check that the version,
filename or release asset in the mods document still exists.`,
	}

	skeletonGenerationFailedIssue = &Issue{
		id: SkeletonGenerationFailedId,
		mdMsg: `
# Skeleton projects could not be generated

Generating the template mods needs ` + "`git`" + ` and ` + "`deno`" + ` on the PATH and network
access to meta.fabricmc.net and maven.fabricmc.net.`,
	}

	invalidLocatorIssue = &Issue{
		id: InvalidLocatorId,
		mdMsg: `
# Invalid settings manager locator

` + "`settings_manager`" + ` must be the fully qualified path of a static field, for
example ` + "`carpetextra.CarpetExtraServer.settingsManager`" + `.`,
	}

	missingSettingsClassesIssue = &Issue{
		id: MissingSettingsClassesId,
		mdMsg: `
# No settings classes configured

Set ` + "`settings_classes`" + ` on the mod or on the failing version. There is no
built-in default for this field.`,
	}

	issues = map[Id]*Issue{
		invalidModsDocumentIssue.Id():      invalidModsDocumentIssue,
		staleCacheIssue.Id():               staleCacheIssue,
		buildFailedIssue.Id():              buildFailedIssue,
		downloadFailedIssue.Id():           downloadFailedIssue,
		skeletonGenerationFailedIssue.Id(): skeletonGenerationFailedIssue,
		invalidLocatorIssue.Id():           invalidLocatorIssue,
		missingSettingsClassesIssue.Id():   missingSettingsClassesIssue,
	}
)

// Values returns all catalog entries ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, is := range issues {
		values = append(values, is)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
