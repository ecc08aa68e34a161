package shortcut

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func specimenStory() *Story {
	return &Story{
		ID:          42,
		Name:        "Fix the login flow",
		StoryType:   "bug",
		CreatedAt:   "2024-01-05T10:00:00Z",
		CompletedAt: strPtr("2024-01-10T08:00:00Z"),
		GroupID:     strPtr("g1"),
	}
}

func allReportFields(t *testing.T) []ReportField {
	t.Helper()
	fields, err := ResolveReportFields([]string{
		FieldCompleted, FieldCreated, FieldTeams, FieldStoryType, FieldCount,
	})
	if err != nil {
		t.Fatalf("ResolveReportFields failed: %v", err)
	}
	return fields
}

func TestProjectStory_AllFields(t *testing.T) {
	groups := GroupDirectory{"g1": "Platform"}
	row := projectStory(specimenStory(), allReportFields(t), groups)

	want := Row{"20240110", "20240105", "Platform", "bug", 1}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("projected row mismatch:\n got  %v\n want %v", row, want)
	}
}

func TestProjectStory_FieldOrderPreserved(t *testing.T) {
	groups := GroupDirectory{"g1": "Platform"}
	fields, err := ResolveReportFields([]string{FieldCount, FieldStoryType, FieldCompleted})
	if err != nil {
		t.Fatalf("ResolveReportFields failed: %v", err)
	}

	row := projectStory(specimenStory(), fields, groups)
	want := Row{1, "bug", "20240110"}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("caller field order not preserved:\n got  %v\n want %v", row, want)
	}
}

func TestProjectStory_OutputLengthMatchesFieldCount(t *testing.T) {
	groups := GroupDirectory{}
	for n := 1; n <= 5; n++ {
		fields := allReportFields(t)[:n]
		row := projectStory(specimenStory(), fields, groups)
		if len(row) != n {
			t.Errorf("expected %d columns, got %d", n, len(row))
		}
	}
}

func TestProjectStory_NeverCompleted(t *testing.T) {
	story := specimenStory()
	story.CompletedAt = nil

	row := projectStory(story, allReportFields(t), GroupDirectory{"g1": "Platform"})
	if row[0] != "" {
		t.Errorf("incomplete story must project completed as empty string, got %v", row[0])
	}
	if row[1] != "20240105" {
		t.Errorf("created must be unaffected, got %v", row[1])
	}
}

func TestProjectStory_GroupMisses(t *testing.T) {
	// Group id present but missing from the directory.
	row := projectStory(specimenStory(), allReportFields(t), GroupDirectory{})
	if row[2] != "" {
		t.Errorf("directory miss must project teams as empty string, got %v", row[2])
	}

	// No group id at all.
	story := specimenStory()
	story.GroupID = nil
	row = projectStory(story, allReportFields(t), GroupDirectory{"g1": "Platform"})
	if row[2] != "" {
		t.Errorf("nil group id must project teams as empty string, got %v", row[2])
	}
}

func TestProjectStory_UnhandledFieldDefaultsToEmpty(t *testing.T) {
	// A recognized-but-unhandled field id (never producible via strict
	// resolution) projects to the defensive empty-string default.
	fields := []ReportField{{ID: "estimate", SemanticType: TypeNumber, Role: RoleMetric}}
	row := projectStory(specimenStory(), fields, GroupDirectory{})
	if !reflect.DeepEqual(row, Row{""}) {
		t.Errorf("unhandled field must project empty string, got %v", row)
	}
}

func TestCompactDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-10T08:00:00Z", "20240110"},
		{"2024-01-05T10:00:00.123Z", "20240105"},
		{"2024-01-10", "20240110"},
		{"", ""},
		{"not-a-date", ""},
	}
	for _, c := range cases {
		if got := compactDate(c.in); got != c.want {
			t.Errorf("compactDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveReportFields_Strict(t *testing.T) {
	if _, err := ResolveReportFields([]string{FieldCompleted, "storyTypo"}); err == nil {
		t.Fatal("expected UnknownFieldError for a typo field id")
	} else if ufe, ok := err.(*UnknownFieldError); !ok {
		t.Fatalf("expected *UnknownFieldError, got %T", err)
	} else if ufe.ID != "storyTypo" {
		t.Errorf("error must name the offending id, got %q", ufe.ID)
	}
}

func TestReportFields_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range ReportFields() {
		if seen[f.ID] {
			t.Errorf("duplicate catalog id: %s", f.ID)
		}
		seen[f.ID] = true
	}
}
