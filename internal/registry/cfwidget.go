// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"slices"
	"time"
)

type (
	// CurseForgeProject is the subset of the cfwidget project document in use.
	CurseForgeProject struct {
		ID    int64            `json:"id"`
		Title string           `json:"title"`
		Files []CurseForgeFile `json:"files"`
	}

	// CurseForgeFile is one uploaded file of a CurseForge project.
	CurseForgeFile struct {
		ID         int64     `json:"id"`
		Name       string    `json:"name"`
		Display    string    `json:"display"`
		Type       string    `json:"type"`
		Versions   []string  `json:"versions"`
		UploadedAt time.Time `json:"uploaded_at"`
	}
)

// IsFabric reports whether the file is tagged for the Fabric loader.
func (f CurseForgeFile) IsFabric() bool {
	return slices.Contains(f.Versions, "Fabric")
}

// CurseForgeProject fetches the project document of projectID from cfwidget.
func (c *Client) CurseForgeProject(ctx context.Context, projectID int64) (*CurseForgeProject, error) {
	reqURL := fmt.Sprintf("%s/%d", c.cfwidgetAPI, projectID)

	var project CurseForgeProject
	if err := c.getJSON(ctx, reqURL, &project); err != nil {
		return nil, fmt.Errorf("fetching CurseForge project %d: %w", projectID, err)
	}
	return &project, nil
}
