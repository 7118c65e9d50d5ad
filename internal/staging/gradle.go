// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"fmt"
	"os"
	"strings"
)

// repositoriesBlock declares the repositories needed to resolve every
// supported source kind.
const repositoriesBlock = `
repositories {
    // Modrinth maven
    exclusiveContent {
        forRepository {
            maven { url = "%s" }
        }
        filter {
            includeGroup "maven.modrinth"
        }
    }
    // jitpack for GitHub
    maven { url = "https://jitpack.io" }
    // CurseForge maven
    exclusiveContent {
        forRepository {
            maven { url = "https://cursemaven.com" }
        }
        filter {
            includeGroup "curse.maven"
        }
    }
}
`

// gradleAppendix renders the repositories and dependencies appended to the
// skeleton's build descriptor. main is a complete dependency notation; extra
// entries are maven coordinates.
func gradleAppendix(modrinthMaven, main string, extra []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, repositoriesBlock, modrinthMaven)
	b.WriteString("\ndependencies {\n    modImplementation ")
	b.WriteString(main)
	for _, dep := range extra {
		fmt.Fprintf(&b, "\n    modImplementation '%s'", dep)
	}
	b.WriteString("\n}\n")
	return b.String()
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
