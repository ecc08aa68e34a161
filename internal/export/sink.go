package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/fathomdata/shortcut-source/internal/endpoint"
)

// Ensure interface compliance
var _ endpoint.SinkEndpoint = (*Sink)(nil)

// Sink writes query result snapshots as Parquet objects. One WriteRaw call
// produces one object under <prefix>/<dataset>/dt=<date>/run=<id>/.
type Sink struct {
	config *Config
	store  ObjectStore
}

// New creates a snapshot sink over the given object store.
func New(config *Config, store ObjectStore) (*Sink, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	return &Sink{config: config, store: store}, nil
}

// ID returns the endpoint template identifier.
func (s *Sink) ID() string { return "s3.snapshot" }

// ValidateConfig verifies object store connectivity and bucket availability.
func (s *Sink) ValidateConfig(ctx context.Context, config map[string]any) (*endpoint.ValidationResult, error) {
	if err := s.store.Ping(ctx); err != nil {
		return &endpoint.ValidationResult{Valid: false, Message: err.Error()}, nil
	}
	if err := s.store.EnsureBucket(ctx, s.config.Bucket); err != nil {
		return &endpoint.ValidationResult{Valid: false, Message: err.Error()}, nil
	}
	return &endpoint.ValidationResult{Valid: true, Message: "Object store reachable"}, nil
}

// GetCapabilities returns sink capabilities.
func (s *Sink) GetCapabilities() *endpoint.Capabilities {
	return &endpoint.Capabilities{
		SupportsWrite:    true,
		SupportsFinalize: true,
	}
}

// GetDescriptor returns the snapshot sink descriptor.
func (s *Sink) GetDescriptor() *endpoint.Descriptor {
	return &endpoint.Descriptor{
		ID:          "s3.snapshot",
		Family:      "s3",
		Title:       "Result Snapshot Export",
		Vendor:      "S3-compatible",
		Description: "Writes query result snapshots as Parquet objects",
		Protocols:   []string{"s3"},
		Fields: []*endpoint.FieldDescriptor{
			{Key: "endpointUrl", Label: "Endpoint URL", ValueType: "string", Required: true, Semantic: "HOST"},
			{Key: "accessKeyId", Label: "Access Key", ValueType: "string", Required: true},
			{Key: "secretAccessKey", Label: "Secret Key", ValueType: "password", Required: true, Sensitive: true, Semantic: "PASSWORD"},
			{Key: "bucket", Label: "Bucket", ValueType: "string", Required: true},
		},
	}
}

// Close releases sink resources.
func (s *Sink) Close() error { return nil }

// WriteRaw writes all records as a single Parquet object. A schema is
// required; snapshots carry exactly the projected report columns.
func (s *Sink) WriteRaw(ctx context.Context, req *endpoint.WriteRequest) (*endpoint.WriteResult, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if len(req.Records) == 0 {
		return &endpoint.WriteResult{RowsWritten: 0, Path: ""}, nil
	}
	if req.Schema == nil || len(req.Schema.Fields) == 0 {
		return nil, fmt.Errorf("schema is required for parquet snapshots")
	}

	loadDate := req.LoadDate
	if loadDate == "" {
		loadDate = time.Now().UTC().Format("2006-01-02")
	}
	datasetID := req.DatasetID
	if datasetID == "" {
		datasetID = "dataset"
	}
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	data, rows, err := encodeParquet(req.Schema, req.Records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.store.EnsureBucket(ctx, s.config.Bucket); err != nil {
		return nil, err
	}

	key := joinPath(
		s.config.BasePrefix,
		datasetID,
		fmt.Sprintf("dt=%s", loadDate),
		fmt.Sprintf("run=%s", runID),
		"part-000000.parquet",
	)
	if err := s.store.PutObject(ctx, s.config.Bucket, key, data); err != nil {
		return nil, err
	}

	return &endpoint.WriteResult{
		RowsWritten: rows,
		Path:        fmt.Sprintf("s3://%s/%s", s.config.Bucket, key),
	}, nil
}

// Finalize reports the final object prefix for a dataset/date pair.
func (s *Sink) Finalize(ctx context.Context, datasetID string, loadDate string) (*endpoint.FinalizeResult, error) {
	return &endpoint.FinalizeResult{
		FinalPath: joinPath(s.config.BasePrefix, datasetID, fmt.Sprintf("dt=%s", loadDate)),
	}, nil
}

// encodeParquet writes all records into one Parquet buffer using the schema.
func encodeParquet(schema *endpoint.Schema, records []endpoint.Record) ([]byte, int64, error) {
	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)
	pw, err := writer.NewJSONWriter(buildParquetSchema(schema), pfw, 4)
	if err != nil {
		return nil, 0, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	var rows int64
	for _, rec := range records {
		row := projectParquetRow(rec, schema)
		rowJSON, err := json.Marshal(row)
		if err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, rows, err
		}
		if err := pw.Write(string(rowJSON)); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return nil, rows, err
		}
		rows++
	}
	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return nil, rows, err
	}
	_ = pfw.Close()
	return buf.Bytes(), rows, nil
}

func buildParquetSchema(schema *endpoint.Schema) string {
	fields := make([]map[string]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", f.Name, parquetPhysicalType(f.DataType)),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func parquetPhysicalType(dataType string) string {
	switch strings.ToUpper(dataType) {
	case "BOOLEAN":
		return "BOOLEAN"
	case "INTEGER", "INT", "BIGINT":
		return "INT64"
	case "FLOAT", "DOUBLE", "NUMBER", "NUMERIC", "DECIMAL":
		return "DOUBLE"
	default:
		return "BYTE_ARRAY"
	}
}

func projectParquetRow(rec endpoint.Record, schema *endpoint.Schema) map[string]any {
	row := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		row[f.Name] = rec[f.Name]
	}
	return row
}
