// Package gateway exposes the connector to the BI host platform over JSON/HTTP:
// the report field catalog, the report query, and per-session credential
// lifecycle routes.
package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpx "github.com/fathomdata/shortcut-source/internal/connector/http"
	"github.com/fathomdata/shortcut-source/internal/connector/shortcut"
	"github.com/fathomdata/shortcut-source/internal/credential"
	"github.com/fathomdata/shortcut-source/internal/endpoint"
	"github.com/fathomdata/shortcut-source/internal/export"
)

// Options configures optional service collaborators.
type Options struct {
	// UpstreamBaseURL overrides the Shortcut API base URL (tests, staging).
	UpstreamBaseURL string

	// Snapshot, when set, receives a Parquet copy of each successful query
	// result. Snapshot failures are logged, never surfaced to the caller.
	Snapshot *export.Sink

	Logger *slog.Logger
}

// Service handles host platform requests.
type Service struct {
	store    credential.Store
	logger   *slog.Logger
	baseURL  string
	snapshot *export.Sink
}

// NewService creates a gateway service over the given credential store.
func NewService(store credential.Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		logger:   logger,
		baseURL:  opts.UpstreamBaseURL,
		snapshot: opts.Snapshot,
	}
}

// Routes builds the HTTP router.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/fields", s.handleFields)
	r.Route("/v1/sessions/{sessionID}", func(r chi.Router) {
		r.Put("/credential", s.handlePutCredential)
		r.Get("/credential", s.handleGetCredential)
		r.Delete("/credential", s.handleDeleteCredential)
		r.Post("/query", s.handleQuery)
	})
	return r
}

// requestLogger logs each request with its status and duration.
func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type fieldPayload struct {
	ID           string `json:"id"`
	SemanticType string `json:"semanticType"`
	Role         string `json:"role"`
	Aggregation  string `json:"aggregation,omitempty"`
}

type queryPayload struct {
	ConfigParams struct {
		Project string `json:"project"`
	} `json:"configParams"`
	DateRange struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"dateRange"`
	Fields []struct {
		Name string `json:"name"`
	} `json:"fields"`
}

type rowPayload struct {
	Values []any `json:"values"`
}

type queryResponse struct {
	Schema []fieldPayload `json:"schema"`
	Rows   []rowPayload   `json:"rows"`
}

type credentialPayload struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := shortcut.ReportFields()
	payload := make([]fieldPayload, 0, len(fields))
	for _, f := range fields {
		payload = append(payload, toFieldPayload(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": payload})
}

func (s *Service) handlePutCredential(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload credentialPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if payload.Token == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token is required"})
		return
	}

	conn, err := s.newConnector(payload.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer conn.Close()

	if err := conn.CheckCredential(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Put(r.Context(), sessionID, payload.Token); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Service) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	token, err := s.store.Get(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.newConnector(token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer conn.Close()

	if err := conn.CheckCredential(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Service) handleDeleteCredential(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := s.store.Delete(r.Context(), sessionID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleQuery(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload queryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := s.store.Get(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.newConnector(token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer conn.Close()

	fieldIDs := make([]string, 0, len(payload.Fields))
	for _, f := range payload.Fields {
		fieldIDs = append(fieldIDs, f.Name)
	}
	if len(fieldIDs) == 0 {
		for _, f := range shortcut.ReportFields() {
			fieldIDs = append(fieldIDs, f.ID)
		}
	}

	result, err := conn.RunStoryQuery(r.Context(), &shortcut.QueryRequest{
		Project:   payload.ConfigParams.Project,
		StartDate: payload.DateRange.StartDate,
		EndDate:   payload.DateRange.EndDate,
		FieldIDs:  fieldIDs,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.snapshotResult(r, payload, result)

	resp := queryResponse{
		Schema: make([]fieldPayload, 0, len(result.Schema)),
		Rows:   make([]rowPayload, 0, len(result.Rows)),
	}
	for _, f := range result.Schema {
		resp.Schema = append(resp.Schema, toFieldPayload(f))
	}
	for _, row := range result.Rows {
		resp.Rows = append(resp.Rows, rowPayload{Values: row})
	}
	writeJSON(w, http.StatusOK, resp)
}

// snapshotResult exports a Parquet copy of the result when a sink is wired.
func (s *Service) snapshotResult(r *http.Request, payload queryPayload, result *shortcut.TableResult) {
	if s.snapshot == nil || len(result.Rows) == 0 {
		return
	}

	schema := &endpoint.Schema{Fields: make([]*endpoint.FieldDefinition, 0, len(result.Schema))}
	for i, f := range result.Schema {
		dataType := "STRING"
		if f.SemanticType == shortcut.TypeNumber {
			dataType = "INTEGER"
		}
		schema.Fields = append(schema.Fields, &endpoint.FieldDefinition{
			Name:     f.ID,
			DataType: dataType,
			Position: i + 1,
		})
	}

	records := make([]endpoint.Record, 0, len(result.Rows))
	for _, row := range result.Rows {
		rec := make(endpoint.Record, len(result.Schema))
		for i, f := range result.Schema {
			rec[f.ID] = row[i]
		}
		records = append(records, rec)
	}

	written, err := s.snapshot.WriteRaw(r.Context(), &endpoint.WriteRequest{
		DatasetID: "shortcut.stories",
		LoadDate:  payload.DateRange.EndDate,
		Schema:    schema,
		Records:   records,
	})
	if err != nil {
		s.logger.Warn("snapshot export failed", "error", err)
		return
	}
	s.logger.Info("snapshot exported", "path", written.Path, "rows", written.RowsWritten)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) newConnector(token string) (*shortcut.Shortcut, error) {
	return shortcut.New(&shortcut.Config{
		BaseURL:  s.baseURL,
		APIToken: token,
	})
}

// writeError maps connector errors onto HTTP statuses: request-validation
// failures are 400, credential failures 401, upstream failures 502.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	var unknownField *shortcut.UnknownFieldError
	var invalidCred *shortcut.InvalidCredentialError
	var upstream *httpx.HTTPError
	var validation *shortcut.ValidationError

	switch {
	case errors.As(err, &unknownField):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: unknownField.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Error()})
	case errors.As(err, &invalidCred):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: invalidCred.Error()})
	case errors.Is(err, credential.ErrNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "no credential stored for session"})
	case errors.As(err, &upstream):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: upstream.Error()})
	default:
		s.logger.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func toFieldPayload(f shortcut.ReportField) fieldPayload {
	return fieldPayload{
		ID:           f.ID,
		SemanticType: string(f.SemanticType),
		Role:         string(f.Role),
		Aggregation:  string(f.Aggregation),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
