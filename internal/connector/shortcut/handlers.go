package shortcut

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fathomdata/shortcut-source/internal/connector/http"
	"github.com/fathomdata/shortcut-source/internal/endpoint"
)

// =============================================================================
// DATASET HANDLERS
// Per-dataset handlers that fetch data from the Shortcut API.
// =============================================================================

// handleStories streams stories matching the search query read parameter.
func (s *Shortcut) handleStories(ctx context.Context, req *endpoint.ReadRequest) (endpoint.Iterator[endpoint.Record], error) {
	query, _ := req.Params["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("stories dataset requires a 'query' read parameter")
	}

	return &storyIterator{
		shortcut:   s,
		ctx:        ctx,
		query:      query,
		pageSize:   s.config.PageSize,
		maxResults: int(req.Limit),
	}, nil
}

// handleGroups fetches the workspace group listing.
func (s *Shortcut) handleGroups(ctx context.Context, req *endpoint.ReadRequest) (endpoint.Iterator[endpoint.Record], error) {
	var groups []*Group
	if err := s.FetchJSON(ctx, APILibrary["group_list"].Path, &groups); err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}

	records := make([]endpoint.Record, 0, len(groups))
	for _, g := range groups {
		records = append(records, endpoint.Record{
			"groupId":     g.ID,
			"name":        g.Name,
			"mentionName": g.MentionName,
			"archived":    g.Archived,
			"_raw":        g,
		})
	}

	return &sliceIterator{records: records, limit: int(req.Limit)}, nil
}

// handleCategories fetches the workspace categories.
func (s *Shortcut) handleCategories(ctx context.Context, req *endpoint.ReadRequest) (endpoint.Iterator[endpoint.Record], error) {
	var categories []*Category
	if err := s.FetchJSON(ctx, APILibrary["category_list"].Path, &categories); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	records := make([]endpoint.Record, 0, len(categories))
	for _, c := range categories {
		records = append(records, endpoint.Record{
			"categoryId": c.ID,
			"name":       c.Name,
			"type":       c.Type,
			"_raw":       c,
		})
	}

	return &sliceIterator{records: records, limit: int(req.Limit)}, nil
}

// =============================================================================
// STORY ITERATOR
// =============================================================================

// storyIterator walks the paginated story search. Pages are fetched strictly
// sequentially: each page's URL comes verbatim from the previous response's
// next link.
type storyIterator struct {
	shortcut   *Shortcut
	ctx        context.Context
	query      string
	pageSize   int
	maxResults int

	started bool
	cursor  http.Cursor
	fetched int
	current []*Story
	index   int
	done    bool
	err     error
}

func (it *storyIterator) Next() bool {
	if it.maxResults > 0 && it.fetched >= it.maxResults {
		return false
	}

	if it.index < len(it.current) {
		return true
	}

	if it.done {
		return false
	}

	if err := it.fetchPage(); err != nil {
		it.err = err
		return false
	}

	return it.index < len(it.current)
}

func (it *storyIterator) fetchPage() error {
	var resp *http.Response
	var err error

	if !it.started {
		resp, err = it.shortcut.Client.Get(it.ctx, APILibrary["story_search"].Path, url.Values{
			"detail":    {"full"},
			"page_size": {strconv.Itoa(it.pageSize)},
			"query":     {it.query},
		})
		it.started = true
	} else {
		resp, err = it.shortcut.Client.Do(it.ctx, &http.Request{Method: "GET", Path: it.cursor.Path()})
	}
	if err != nil {
		return err
	}

	var result StorySearchResult
	if err := resp.JSON(&result); err != nil {
		return err
	}

	it.current = result.Data
	it.index = 0
	it.cursor = http.CursorFrom(result.Next)
	if !it.cursor.Valid() {
		it.done = true
	}

	return nil
}

func (it *storyIterator) Value() endpoint.Record {
	if it.index < len(it.current) {
		story := it.current[it.index]
		it.index++
		it.fetched++

		groupID := ""
		if story.GroupID != nil {
			groupID = *story.GroupID
		}
		completedAt := ""
		if story.CompletedAt != nil {
			completedAt = *story.CompletedAt
		}

		return endpoint.Record{
			"storyId":     story.ID,
			"name":        story.Name,
			"storyType":   story.StoryType,
			"groupId":     groupID,
			"createdAt":   story.CreatedAt,
			"completedAt": completedAt,
			"appUrl":      story.AppURL,
			"_raw":        story,
		}
	}
	return nil
}

func (it *storyIterator) Err() error   { return it.err }
func (it *storyIterator) Close() error { return nil }

// =============================================================================
// SLICE ITERATOR
// =============================================================================

type sliceIterator struct {
	records []endpoint.Record
	index   int
	limit   int
}

func (it *sliceIterator) Next() bool {
	if it.limit > 0 && it.index >= it.limit {
		return false
	}
	return it.index < len(it.records)
}

func (it *sliceIterator) Value() endpoint.Record {
	if it.index < len(it.records) {
		rec := it.records[it.index]
		it.index++
		return rec
	}
	return nil
}

func (it *sliceIterator) Err() error   { return nil }
func (it *sliceIterator) Close() error { return nil }
