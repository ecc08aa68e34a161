package shortcut

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fathomdata/shortcut-source/internal/connector/http"
)

// =============================================================================
// REPORT QUERY ORCHESTRATOR
// The data-fetch path behind the host platform's getData call: paginate the
// story search to exhaustion, join the group directory, project every story
// onto the requested report columns.
// =============================================================================

// QueryRequest describes one report query from the host platform.
type QueryRequest struct {
	// Project is the project name filter (escaped into the search query).
	Project string

	// StartDate and EndDate bound story completion, inclusive (YYYY-MM-DD).
	StartDate string
	EndDate   string

	// FieldIDs are the requested report columns, in the caller's order.
	FieldIDs []string
}

// TableResult is the terminal artifact of a report query: the sub-selected
// schema plus one row per story, columns aligned to Schema.
type TableResult struct {
	Schema []ReportField
	Rows   []Row
}

// RunStoryQuery executes one report query. A run either fully succeeds or
// fully fails: there is no retry and no partial-result delivery, which is
// acceptable because report queries are side-effect-free re-issuable reads.
//
// Order of operations is fixed: field resolution, then the group directory,
// then the sequential page loop. The directory must be complete before any
// row is projected; pages cannot be fetched in parallel because each page's
// URL comes from the previous response.
func (s *Shortcut) RunStoryQuery(ctx context.Context, req *QueryRequest) (*TableResult, error) {
	fields, err := ResolveReportFields(req.FieldIDs)
	if err != nil {
		return nil, err
	}

	groups, err := s.fetchGroupDirectory(ctx)
	if err != nil {
		return nil, err
	}

	searchQuery := fmt.Sprintf("project:%s AND completed:%s..%s", req.Project, req.StartDate, req.EndDate)

	resp, err := s.Client.Get(ctx, APILibrary["story_search"].Path, url.Values{
		"detail":    {"full"},
		"page_size": {strconv.Itoa(s.config.PageSize)},
		"query":     {searchQuery},
	})
	if err != nil {
		return nil, fmt.Errorf("search stories: %w", err)
	}

	var rows []Row
	for {
		var page StorySearchResult
		if err := resp.JSON(&page); err != nil {
			return nil, fmt.Errorf("decode search page: %w", err)
		}

		for _, story := range page.Data {
			rows = append(rows, projectStory(story, fields, groups))
		}

		cursor := http.CursorFrom(page.Next)
		if !cursor.Valid() {
			break
		}

		resp, err = s.Client.Do(ctx, &http.Request{Method: "GET", Path: cursor.Path()})
		if err != nil {
			return nil, fmt.Errorf("search stories: %w", err)
		}
	}

	return &TableResult{Schema: fields, Rows: rows}, nil
}
