package endpoint

// Record represents a single data record as key-value pairs.
type Record = map[string]any

// Iterator provides streaming access to records.
type Iterator[T any] interface {
	// Next advances to the next record. Returns false when done or on error.
	Next() bool

	// Value returns the current record. Only valid after Next() returns true.
	Value() T

	// Err returns any error encountered during iteration.
	Err() error

	// Close releases resources. Must be called when done.
	Close() error
}

// --- Validation Types ---

type ValidationResult struct {
	Valid           bool
	Message         string
	DetectedVersion string
}

// --- Capabilities ---

type Capabilities struct {
	// Source capabilities
	SupportsFull       bool
	SupportsCountProbe bool
	SupportsPreview    bool
	SupportsMetadata   bool

	// Sink capabilities
	SupportsWrite    bool
	SupportsFinalize bool

	DefaultFetchSize int
}

// --- Dataset Types ---

type Dataset struct {
	ID          string
	Name        string
	Kind        string // "entity", "table", "view"
	Description string
	PrimaryKeys []string
}

// --- Schema Types ---

type Schema struct {
	Fields []*FieldDefinition
}

type FieldDefinition struct {
	Name     string
	DataType string
	Nullable bool
	Comment  string
	Position int
}

// --- Read Types ---

type ReadRequest struct {
	DatasetID string
	Limit     int64
	Params    map[string]any
}

// --- Write Types ---

type WriteRequest struct {
	DatasetID string
	Mode      string // "append", "overwrite"
	LoadDate  string
	RunID     string
	Schema    *Schema
	Records   []Record
}

type WriteResult struct {
	RowsWritten int64
	Path        string
}

type FinalizeResult struct {
	FinalPath string
}
