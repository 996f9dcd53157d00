// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SummaryRequest is the JSON body of a change-summary poll. The client
// reports the root ids it saw on its previous poll and, per repository,
// the upper bound that poll returned.
type SummaryRequest struct {
	// LastRootRefs maps each repository to the root ids the client
	// currently mirrors. A repository absent from the map is treated as
	// having had no roots.
	LastRootRefs map[RepoName][]RootID `json:"last_root_refs"`

	// LowerBounds maps each repository to the lower bound of the poll
	// window. A missing repository polls from the beginning of the log.
	LowerBounds map[RepoName]Watermark `json:"lower_bounds"`
}

// RootActionResponse acknowledges a root registration or unregistration.
type RootActionResponse struct {
	User       string   `json:"user"`
	Repository RepoName `json:"repository"`
	RootID     RootID   `json:"root_id"`
	RootPath   string   `json:"root_path"`
}
