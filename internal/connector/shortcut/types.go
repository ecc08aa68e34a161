package shortcut

// Config holds Shortcut connection configuration.
type Config struct {
	// BaseURL is the Shortcut API URL (default: https://api.app.shortcut.com)
	BaseURL string `json:"baseUrl"`

	// APIToken is the Shortcut API token sent in the Shortcut-Token header
	APIToken string `json:"apiToken"`

	// PageSize is the number of stories per search page
	PageSize int `json:"pageSize,omitempty"`
}

// DefaultBaseURL is the Shortcut API host.
const DefaultBaseURL = "https://api.app.shortcut.com"

// DefaultPageSize is the number of stories requested per search page.
const DefaultPageSize = 25

// MaxPageSize is the Shortcut search API hard limit.
const MaxPageSize = 25

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIToken == "" {
		return &ValidationError{Field: "apiToken", Message: "required"}
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// =============================================================================
// SHORTCUT API RESPONSE TYPES
// =============================================================================

// Story represents one Shortcut story.
type Story struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	StoryType   string  `json:"story_type,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	GroupID     *string `json:"group_id,omitempty"`
	Estimate    *int    `json:"estimate,omitempty"`
	AppURL      string  `json:"app_url,omitempty"`
}

// Group represents a Shortcut group (team).
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MentionName string `json:"mention_name,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
}

// Category represents a Shortcut category. Used only as the credential probe
// target; the payload itself is not consumed by the report pipeline.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// =============================================================================
// SEARCH RESPONSE
// =============================================================================

// StorySearchResult represents one page of a story search response. Next is
// an opaque URL/path for the following page, absent or empty on the last one.
type StorySearchResult struct {
	Data  []*Story `json:"data"`
	Next  string   `json:"next,omitempty"`
	Total int      `json:"total,omitempty"`
}
