package endpoint

// Descriptor provides metadata about an endpoint type.
// Used by the host platform for rendering configuration prompts.
type Descriptor struct {
	ID          string
	Family      string
	Title       string
	Vendor      string
	Description string
	Categories  []string
	Protocols   []string
	DocsURL     string
	Fields      []*FieldDescriptor
}

// FieldDescriptor defines a configuration field.
type FieldDescriptor struct {
	Key         string
	Label       string
	ValueType   string // "string", "integer", "boolean", "password"
	Required    bool
	Semantic    string // "GENERIC", "HOST", "PASSWORD"
	Description string
	Placeholder string
	Sensitive   bool
}
