package shortcut

// =============================================================================
// API LIBRARY
// Catalog of Shortcut REST API endpoints used by this connector.
// =============================================================================

// APIEndpoint describes a Shortcut REST API endpoint.
type APIEndpoint struct {
	Method      string
	Path        string
	Description string
	DocsURL     string
	Scope       string
}

// APILibrary contains all Shortcut API endpoints used by this connector.
var APILibrary = map[string]APIEndpoint{
	"story_search": {
		Method:      "GET",
		Path:        "/api/v3/search/stories",
		Description: "Search stories with cursor pagination",
		DocsURL:     "https://developer.shortcut.com/api/rest/v3#Search-Stories",
		Scope:       "stories",
	},
	"group_list": {
		Method:      "GET",
		Path:        "/api/v3/groups",
		Description: "List groups (teams) in the workspace",
		DocsURL:     "https://developer.shortcut.com/api/rest/v3#List-Groups",
		Scope:       "groups",
	},
	"category_list": {
		Method:      "GET",
		Path:        "/api/v3/categories",
		Description: "List categories; doubles as the credential probe",
		DocsURL:     "https://developer.shortcut.com/api/rest/v3#List-Categories",
		Scope:       "categories",
	},
}

// =============================================================================
// REPORT FIELD CATALOG
// Ordered column definitions exposed to the BI host platform.
// =============================================================================

// SemanticType classifies a report column's value domain.
type SemanticType string

const (
	TypeDate   SemanticType = "DATE"
	TypeText   SemanticType = "TEXT"
	TypeNumber SemanticType = "NUMBER"
)

// FieldRole distinguishes dimensions from metrics.
type FieldRole string

const (
	RoleDimension FieldRole = "DIMENSION"
	RoleMetric    FieldRole = "METRIC"
)

// Aggregation names the host-side aggregation applied to a metric.
type Aggregation string

const AggSum Aggregation = "SUM"

// ReportField is one immutable column definition in the report catalog.
type ReportField struct {
	ID           string
	SemanticType SemanticType
	Role         FieldRole
	Aggregation  Aggregation
}

// Report field ids.
const (
	FieldCompleted = "completed"
	FieldCreated   = "created"
	FieldTeams     = "teams"
	FieldStoryType = "storyType"
	FieldCount     = "count"
)

// reportCatalog is the static, ordered report column catalog. The count
// metric is a pre-aggregated literal 1 per story, summed by the host
// platform, not by this connector.
var reportCatalog = []ReportField{
	{ID: FieldCompleted, SemanticType: TypeDate, Role: RoleDimension},
	{ID: FieldCreated, SemanticType: TypeDate, Role: RoleDimension},
	{ID: FieldTeams, SemanticType: TypeText, Role: RoleDimension},
	{ID: FieldStoryType, SemanticType: TypeText, Role: RoleDimension},
	{ID: FieldCount, SemanticType: TypeNumber, Role: RoleMetric, Aggregation: AggSum},
}

// ReportFields returns the full catalog in declaration order.
func ReportFields() []ReportField {
	out := make([]ReportField, len(reportCatalog))
	copy(out, reportCatalog)
	return out
}

// ResolveReportFields maps requested field ids onto catalog entries,
// preserving the caller's order. Resolution is strict: any id absent from
// the catalog fails with UnknownFieldError before projection begins.
func ResolveReportFields(ids []string) ([]ReportField, error) {
	byID := make(map[string]ReportField, len(reportCatalog))
	for _, f := range reportCatalog {
		byID[f.ID] = f
	}

	fields := make([]ReportField, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, &UnknownFieldError{ID: id}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// =============================================================================
// FIELD DEFINITIONS
// Schema field definitions for each dataset.
// =============================================================================

// FieldDef defines a schema field.
type FieldDef struct {
	Name     string
	DataType string
	Nullable bool
	Comment  string
}

// =============================================================================
// DATASET DEFINITIONS
// Catalog of available datasets with their schemas.
// =============================================================================

// DatasetDefinition defines a dataset's metadata and read behavior.
type DatasetDefinition struct {
	Name         string
	Entity       string
	Description  string
	StaticFields []FieldDef
	APIKeys      []string
	Handler      string
}

// DatasetDefinitions contains all Shortcut dataset definitions.
var DatasetDefinitions = map[string]DatasetDefinition{
	"shortcut.stories": {
		Name:        "Shortcut Stories",
		Entity:      "stories",
		Description: "Stories matched by the configured search, paginated to exhaustion.",
		StaticFields: []FieldDef{
			{Name: "storyId", DataType: "INTEGER", Nullable: false},
			{Name: "name", DataType: "STRING", Nullable: true},
			{Name: "storyType", DataType: "STRING", Nullable: true, Comment: "feature, bug, or chore."},
			{Name: "groupId", DataType: "STRING", Nullable: true, Comment: "Owning group (team) id."},
			{Name: "createdAt", DataType: "TIMESTAMP", Nullable: true},
			{Name: "completedAt", DataType: "TIMESTAMP", Nullable: true, Comment: "Absent until the story completes."},
			{Name: "appUrl", DataType: "STRING", Nullable: true},
		},
		APIKeys: []string{"story_search"},
		Handler: "stories",
	},
	"shortcut.groups": {
		Name:        "Shortcut Groups",
		Entity:      "groups",
		Description: "Groups (teams) referenced by stories.",
		StaticFields: []FieldDef{
			{Name: "groupId", DataType: "STRING", Nullable: false},
			{Name: "name", DataType: "STRING", Nullable: false},
			{Name: "mentionName", DataType: "STRING", Nullable: true},
			{Name: "archived", DataType: "BOOLEAN", Nullable: true},
		},
		APIKeys: []string{"group_list"},
		Handler: "groups",
	},
	"shortcut.categories": {
		Name:        "Shortcut Categories",
		Entity:      "categories",
		Description: "Workspace categories.",
		StaticFields: []FieldDef{
			{Name: "categoryId", DataType: "INTEGER", Nullable: false},
			{Name: "name", DataType: "STRING", Nullable: false},
			{Name: "type", DataType: "STRING", Nullable: true},
		},
		APIKeys: []string{"category_list"},
		Handler: "categories",
	},
}

// GetDatasetIDs returns all available dataset IDs.
func GetDatasetIDs() []string {
	ids := make([]string, 0, len(DatasetDefinitions))
	for id := range DatasetDefinitions {
		ids = append(ids, id)
	}
	return ids
}
