package shortcut

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathomdata/shortcut-source/internal/connector/http"
	"github.com/fathomdata/shortcut-source/internal/endpoint"
)

// =============================================================================
// SHORTCUT CONNECTOR
// Implements endpoint.SourceEndpoint
// =============================================================================

// Ensure interface compliance
var _ endpoint.SourceEndpoint = (*Shortcut)(nil)

// Shortcut is the Shortcut workspace connector.
type Shortcut struct {
	*http.Base
	config *Config
}

// New creates a new Shortcut connector with the given configuration.
func New(config *Config) (*Shortcut, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpConfig := http.DefaultClientConfig()
	httpConfig.BaseURL = config.BaseURL
	httpConfig.Auth = http.TokenHeader{
		Token:  config.APIToken,
		Header: "Shortcut-Token",
	}
	httpConfig.Headers["Content-Type"] = "application/json"
	// Report queries surface upstream failures immediately; no retry.
	httpConfig.MaxRetries = 0

	s := &Shortcut{
		Base:   http.NewBase("http.shortcut", "Shortcut", "Shortcut", httpConfig),
		config: config,
	}

	return s, nil
}

// =============================================================================
// ENDPOINT INTERFACE
// =============================================================================

// ValidateConfig probes the categories endpoint to test the token.
func (s *Shortcut) ValidateConfig(ctx context.Context, config map[string]any) (*endpoint.ValidationResult, error) {
	resp, err := s.Client.Get(ctx, APILibrary["category_list"].Path, nil)
	if err != nil {
		var httpErr *http.HTTPError
		if errors.As(err, &httpErr) {
			return &endpoint.ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("Credential rejected: HTTP %d", httpErr.StatusCode),
			}, nil
		}
		return nil, err
	}

	return &endpoint.ValidationResult{
		Valid:   resp.IsSuccess(),
		Message: "Connection successful",
	}, nil
}

// CheckCredential probes the token and returns InvalidCredentialError when
// the upstream rejects it. Transport failures pass through untouched.
func (s *Shortcut) CheckCredential(ctx context.Context) error {
	_, err := s.Client.Get(ctx, APILibrary["category_list"].Path, nil)
	if err != nil {
		var httpErr *http.HTTPError
		if errors.As(err, &httpErr) {
			return &InvalidCredentialError{StatusCode: httpErr.StatusCode}
		}
		return err
	}
	return nil
}

// GetCapabilities returns Shortcut source capabilities.
func (s *Shortcut) GetCapabilities() *endpoint.Capabilities {
	return &endpoint.Capabilities{
		SupportsFull:     true,
		SupportsPreview:  true,
		SupportsMetadata: true,
		DefaultFetchSize: s.config.PageSize,
	}
}

// GetDescriptor returns the Shortcut endpoint descriptor.
func (s *Shortcut) GetDescriptor() *endpoint.Descriptor {
	return &endpoint.Descriptor{
		ID:          "http.shortcut",
		Family:      "http",
		Title:       "Shortcut",
		Vendor:      "Shortcut",
		Description: "Shortcut REST API connector for stories, groups, and categories",
		Categories:  []string{"work", "project-management"},
		Protocols:   []string{"https"},
		DocsURL:     "https://developer.shortcut.com/api/rest/v3",
		Fields: []*endpoint.FieldDescriptor{
			{Key: "apiToken", Label: "API Token", ValueType: "password", Required: true, Sensitive: true, Semantic: "PASSWORD"},
			{Key: "baseUrl", Label: "API URL", ValueType: "string", Required: false, Semantic: "HOST", Placeholder: DefaultBaseURL},
		},
	}
}

// =============================================================================
// SOURCE ENDPOINT - Catalog-Driven
// =============================================================================

// ListDatasets returns available Shortcut datasets from the catalog.
func (s *Shortcut) ListDatasets(ctx context.Context) ([]*endpoint.Dataset, error) {
	datasets := make([]*endpoint.Dataset, 0, len(DatasetDefinitions))
	for id, def := range DatasetDefinitions {
		datasets = append(datasets, &endpoint.Dataset{
			ID:          id,
			Name:        def.Name,
			Kind:        "entity",
			Description: def.Description,
		})
	}
	return datasets, nil
}

// GetSchema returns schema from catalog definitions.
func (s *Shortcut) GetSchema(ctx context.Context, datasetID string) (*endpoint.Schema, error) {
	def, ok := DatasetDefinitions[datasetID]
	if !ok {
		return nil, fmt.Errorf("unknown dataset: %s", datasetID)
	}

	fields := make([]*endpoint.FieldDefinition, 0, len(def.StaticFields))
	for i, f := range def.StaticFields {
		fields = append(fields, &endpoint.FieldDefinition{
			Name:     f.Name,
			DataType: f.DataType,
			Nullable: f.Nullable,
			Comment:  f.Comment,
			Position: i + 1,
		})
	}

	return &endpoint.Schema{Fields: fields}, nil
}

// Read routes to the appropriate handler based on dataset.
func (s *Shortcut) Read(ctx context.Context, req *endpoint.ReadRequest) (endpoint.Iterator[endpoint.Record], error) {
	def, ok := DatasetDefinitions[req.DatasetID]
	if !ok {
		return nil, fmt.Errorf("unknown dataset: %s", req.DatasetID)
	}

	switch def.Handler {
	case "stories":
		return s.handleStories(ctx, req)
	case "groups":
		return s.handleGroups(ctx, req)
	case "categories":
		return s.handleCategories(ctx, req)
	default:
		return nil, fmt.Errorf("no handler for dataset: %s", req.DatasetID)
	}
}
