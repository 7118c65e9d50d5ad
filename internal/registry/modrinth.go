// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"
)

// ModrinthVersion is one published version of a Modrinth project.
type ModrinthVersion struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	VersionNumber string    `json:"version_number"`
	VersionType   string    `json:"version_type"`
	GameVersions  []string  `json:"game_versions"`
	Loaders       []string  `json:"loaders"`
	DatePublished time.Time `json:"date_published"`
}

// ModrinthVersions lists the Fabric versions of a project, oldest first.
func (c *Client) ModrinthVersions(ctx context.Context, slug string) ([]ModrinthVersion, error) {
	reqURL := fmt.Sprintf("%s/v2/project/%s/version?loaders=%s",
		c.modrinthAPI, url.PathEscape(slug), url.QueryEscape(`["fabric"]`))

	var versions []ModrinthVersion
	if err := c.getJSON(ctx, reqURL, &versions); err != nil {
		return nil, fmt.Errorf("listing Modrinth versions of %s: %w", slug, err)
	}

	versions = slices.DeleteFunc(versions, func(v ModrinthVersion) bool {
		return !slices.Contains(v.Loaders, "fabric")
	})
	slices.SortStableFunc(versions, func(a, b ModrinthVersion) int {
		return a.DatePublished.Compare(b.DatePublished)
	})
	return versions, nil
}
