package shortcut

import "strings"

// Row is one output row, aligned positionally to the requested fields.
type Row []any

// projectStory produces one row for a story: exactly one value per requested
// field, in the caller's order. Pure function of its three inputs.
//
// Value policy per field:
//
//	completed  - completion date, digits only (20240110); never completed -> ""
//	created    - creation date, same transform; absent -> ""
//	teams      - group directory lookup; no group id or miss -> ""
//	storyType  - verbatim label; absent -> ""
//	count      - literal 1
//
// A field id that reaches this switch unhandled projects to "" instead of
// failing; typos never get here because ResolveReportFields is strict.
func projectStory(story *Story, fields []ReportField, groups GroupDirectory) Row {
	row := make(Row, 0, len(fields))
	for _, f := range fields {
		switch f.ID {
		case FieldCompleted:
			if story.CompletedAt != nil {
				row = append(row, compactDate(*story.CompletedAt))
			} else {
				row = append(row, "")
			}
		case FieldCreated:
			row = append(row, compactDate(story.CreatedAt))
		case FieldTeams:
			if story.GroupID != nil {
				row = append(row, groups.Name(*story.GroupID))
			} else {
				row = append(row, "")
			}
		case FieldStoryType:
			row = append(row, story.StoryType)
		case FieldCount:
			row = append(row, 1)
		default:
			row = append(row, "")
		}
	}
	return row
}

// compactDate reduces an RFC 3339 timestamp to its date portion with the
// separators stripped: "2024-01-10T08:00:00Z" -> "20240110". Empty or
// unusable input yields "".
func compactDate(ts string) string {
	if ts == "" {
		return ""
	}
	date, _, _ := strings.Cut(ts, "T")
	date = strings.ReplaceAll(date, "-", "")
	if len(date) != 8 {
		return ""
	}
	return date
}
