package shortcut

import (
	"context"
	"fmt"
)

// GroupDirectory maps group ids to human-readable team names. Built once per
// report run and read-only afterward. Keys are not guaranteed to cover every
// story's group id.
type GroupDirectory map[string]string

// Name resolves a group id to its team name. A miss yields the empty string,
// never an error.
func (d GroupDirectory) Name(id string) string {
	return d[id]
}

// fetchGroupDirectory loads the workspace group listing in a single call.
// Any non-200 response is fatal for the whole report run: team names cannot
// be resolved from a partial table, so the error propagates as-is.
func (s *Shortcut) fetchGroupDirectory(ctx context.Context) (GroupDirectory, error) {
	var groups []*Group
	if err := s.FetchJSON(ctx, APILibrary["group_list"].Path, &groups); err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}

	dir := make(GroupDirectory, len(groups))
	for _, g := range groups {
		dir[g.ID] = g.Name
	}
	return dir, nil
}
