package models

// SyncRootSet is the set of synchronization roots one user has registered
// in one repository. RootIDs and RootPaths are kept in 1:1 correspondence
// and contain no duplicates; an empty set is a valid terminal value (the
// user mirrors nothing in that repository).
type SyncRootSet struct {
	Repository RepoName `json:"repository"`
	RootIDs    []RootID `json:"root_ids"`
	RootPaths  []string `json:"root_paths"`
}

// ContainsID reports whether id is one of the registered roots.
func (s SyncRootSet) ContainsID(id RootID) bool {
	for _, rootID := range s.RootIDs {
		if rootID == id {
			return true
		}
	}
	return false
}

// PathForID returns the registered path of root id, or "" when id is not
// part of the set.
func (s SyncRootSet) PathForID(id RootID) string {
	for i, rootID := range s.RootIDs {
		if rootID == id && i < len(s.RootPaths) {
			return s.RootPaths[i]
		}
	}
	return ""
}
