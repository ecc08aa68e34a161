package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fathomdata/shortcut-source/internal/connector/shortcut"
	"github.com/fathomdata/shortcut-source/internal/credential"
	"github.com/fathomdata/shortcut-source/internal/export"
)

// fakeUpstream stubs the Shortcut API for gateway tests.
type fakeUpstream struct {
	srv         *httptest.Server
	validToken  string
	groupStatus int
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{validToken: "good-token", groupStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Shortcut-Token") != f.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/v3/groups", func(w http.ResponseWriter, r *http.Request) {
		if f.groupStatus != http.StatusOK {
			w.WriteHeader(f.groupStatus)
			return
		}
		json.NewEncoder(w).Encode([]shortcut.Group{{ID: "g1", Name: "Platform"}})
	})
	mux.HandleFunc("/api/v3/search/stories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(shortcut.StorySearchResult{
			Data: []*shortcut.Story{
				{ID: 1, CreatedAt: "2024-01-05T10:00:00Z", CompletedAt: strPtr("2024-01-10T08:00:00Z"), GroupID: strPtr("g1"), StoryType: "bug"},
			},
			Next: "/page2",
		})
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(shortcut.StorySearchResult{
			Data: []*shortcut.Story{
				{ID: 2, CreatedAt: "2024-01-07T12:00:00Z", StoryType: "chore"},
			},
		})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T, upstream *fakeUpstream, snapshot *export.Sink) (*Service, credential.Store) {
	t.Helper()
	store := credential.NewMemoryStore()
	svc := NewService(store, Options{
		UpstreamBaseURL: upstream.srv.URL,
		Snapshot:        snapshot,
	})
	return svc, store
}

func doRequest(t *testing.T, svc *Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	svc.Routes().ServeHTTP(rec, req)
	return rec
}

const queryBody = `{
	"configParams": {"project": "Atlas"},
	"dateRange": {"startDate": "2024-01-01", "endDate": "2024-01-31"},
	"fields": [{"name": "completed"}, {"name": "teams"}, {"name": "count"}]
}`

func TestService_Fields(t *testing.T) {
	svc, _ := newTestService(t, newFakeUpstream(t), nil)

	rec := doRequest(t, svc, http.MethodGet, "/v1/fields", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Fields []fieldPayload `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Fields) != 5 {
		t.Fatalf("expected 5 catalog fields, got %d", len(payload.Fields))
	}
	if payload.Fields[0].ID != "completed" || payload.Fields[4].ID != "count" {
		t.Errorf("catalog order not preserved: %v", payload.Fields)
	}
	if payload.Fields[4].Aggregation != "SUM" {
		t.Errorf("count metric must carry SUM aggregation, got %q", payload.Fields[4].Aggregation)
	}
}

func TestService_CredentialLifecycle(t *testing.T) {
	upstream := newFakeUpstream(t)
	svc, store := newTestService(t, upstream, nil)

	// Store a valid token.
	rec := doRequest(t, svc, http.MethodPut, "/v1/sessions/s1/credential", `{"token":"good-token"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 storing a valid token, got %d: %s", rec.Code, rec.Body)
	}
	if token, _ := store.Get(context.Background(), "s1"); token != "good-token" {
		t.Errorf("token not persisted, got %q", token)
	}

	// Probe it back.
	rec = doRequest(t, svc, http.MethodGet, "/v1/sessions/s1/credential", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 probing a stored valid token, got %d", rec.Code)
	}

	// Delete it.
	rec = doRequest(t, svc, http.MethodDelete, "/v1/sessions/s1/credential", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 on delete, got %d", rec.Code)
	}
	rec = doRequest(t, svc, http.MethodGet, "/v1/sessions/s1/credential", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 probing a deleted credential, got %d", rec.Code)
	}
}

func TestService_PutCredential_Rejected(t *testing.T) {
	upstream := newFakeUpstream(t)
	svc, store := newTestService(t, upstream, nil)

	rec := doRequest(t, svc, http.MethodPut, "/v1/sessions/s1/credential", `{"token":"bad-token"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a rejected token, got %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), "s1"); err == nil {
		t.Error("rejected token must not be persisted")
	}
}

func TestService_Query(t *testing.T) {
	upstream := newFakeUpstream(t)
	svc, store := newTestService(t, upstream, nil)
	store.Put(context.Background(), "s1", "good-token")

	rec := doRequest(t, svc, http.MethodPost, "/v1/sessions/s1/query", queryBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Schema) != 3 {
		t.Fatalf("expected 3 schema fields, got %d", len(resp.Schema))
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("expected 2 rows across both pages, got %d", len(resp.Rows))
	}
	wantFirst := []any{"20240110", "Platform", float64(1)}
	for i, v := range wantFirst {
		if resp.Rows[0].Values[i] != v {
			t.Errorf("row[0][%d] = %v, want %v", i, resp.Rows[0].Values[i], v)
		}
	}
}

func TestService_Query_NoCredential(t *testing.T) {
	svc, _ := newTestService(t, newFakeUpstream(t), nil)

	rec := doRequest(t, svc, http.MethodPost, "/v1/sessions/s1/query", queryBody)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a stored credential, got %d", rec.Code)
	}
}

func TestService_Query_UnknownField(t *testing.T) {
	upstream := newFakeUpstream(t)
	svc, store := newTestService(t, upstream, nil)
	store.Put(context.Background(), "s1", "good-token")

	body := `{"configParams":{"project":"Atlas"},"dateRange":{"startDate":"2024-01-01","endDate":"2024-01-31"},"fields":[{"name":"nope"}]}`
	rec := doRequest(t, svc, http.MethodPost, "/v1/sessions/s1/query", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown field, got %d", rec.Code)
	}
}

func TestService_Query_UpstreamFailure(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.groupStatus = http.StatusInternalServerError
	svc, store := newTestService(t, upstream, nil)
	store.Put(context.Background(), "s1", "good-token")

	rec := doRequest(t, svc, http.MethodPost, "/v1/sessions/s1/query", queryBody)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for an upstream failure, got %d", rec.Code)
	}
}

func TestService_Query_SnapshotExport(t *testing.T) {
	upstream := newFakeUpstream(t)

	objects := export.NewMemoryStore()
	sink, err := export.New(&export.Config{Bucket: "snapshots", BasePrefix: "reports"}, objects)
	if err != nil {
		t.Fatalf("export.New failed: %v", err)
	}

	svc, store := newTestService(t, upstream, sink)
	store.Put(context.Background(), "s1", "good-token")

	rec := doRequest(t, svc, http.MethodPost, "/v1/sessions/s1/query", queryBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	keys, err := objects.ListPrefix(context.Background(), "snapshots", "reports/shortcut.stories/dt=2024-01-31/")
	if err != nil {
		t.Fatalf("ListPrefix failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 snapshot object, got %v", keys)
	}
}
