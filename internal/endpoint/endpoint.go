// Package endpoint defines the core interfaces that all connectors must implement.
//
// Architecture:
//
//	Endpoint        - Base contract (ID, Validate, Capabilities, Descriptor)
//	SourceEndpoint  - Read data (ListDatasets, GetSchema, Read)
//	SinkEndpoint    - Write data (WriteRaw, Finalize)
//
// All endpoints must implement the base Endpoint interface. Connectors then
// compose additional interfaces based on their capabilities.
package endpoint

import "context"

// Endpoint is the base contract that all connectors must implement.
type Endpoint interface {
	// ID returns the unique template identifier (e.g., "http.shortcut").
	ID() string

	// ValidateConfig tests configuration validity and connectivity.
	ValidateConfig(ctx context.Context, config map[string]any) (*ValidationResult, error)

	// GetCapabilities returns the set of supported operations.
	GetCapabilities() *Capabilities

	// GetDescriptor returns metadata about this endpoint type.
	GetDescriptor() *Descriptor

	// Close releases any resources held by the endpoint.
	Close() error
}

// SourceEndpoint can read data from an external system.
type SourceEndpoint interface {
	Endpoint

	// ListDatasets returns available datasets/tables/collections.
	ListDatasets(ctx context.Context) ([]*Dataset, error)

	// GetSchema returns the schema for a specific dataset.
	GetSchema(ctx context.Context, datasetID string) (*Schema, error)

	// Read streams records from a dataset.
	// Returns an Iterator that must be closed after use.
	Read(ctx context.Context, req *ReadRequest) (Iterator[Record], error)
}

// SinkEndpoint can write data to an external system.
type SinkEndpoint interface {
	Endpoint

	// WriteRaw writes records to the sink.
	WriteRaw(ctx context.Context, req *WriteRequest) (*WriteResult, error)

	// Finalize completes a write operation (e.g., moves staged files to final location).
	Finalize(ctx context.Context, datasetID string, loadDate string) (*FinalizeResult, error)
}
