package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(baseURL string, auth AuthConfig) *Client {
	config := DefaultClientConfig()
	config.BaseURL = baseURL
	config.Auth = auth
	config.RateLimit = 1000
	config.RateBurst = 1000
	return NewClient(config)
}

func TestClient_TokenHeaderApplied(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Shortcut-Token")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, TokenHeader{Token: "secret", Header: "Shortcut-Token"})
	if _, err := client.Get(context.Background(), "/api/v3/categories", nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotToken != "secret" {
		t.Errorf("expected Shortcut-Token header, got %q", gotToken)
	}
}

func TestClient_Non200ReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad token"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, NoAuth{})
	_, err := client.Get(context.Background(), "/api/v3/groups", nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", httpErr.StatusCode)
	}
	if httpErr.Body != `{"message":"bad token"}` {
		t.Errorf("expected upstream body preserved, got %q", httpErr.Body)
	}
}

func TestClient_NoRetryWhenMaxRetriesZero(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, NoAuth{})
	if _, err := client.Get(context.Background(), "/api/v3/search/stories", nil); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 attempt with MaxRetries=0, got %d", n)
	}
}

func TestClient_RetriesServerErrorsWhenConfigured(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	config := DefaultClientConfig()
	config.BaseURL = srv.URL
	config.MaxRetries = 3
	config.RateLimit = 1000
	config.RateBurst = 1000
	client := NewClient(config)

	if _, err := client.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestClient_AbsolutePathUsedVerbatim(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient("http://unused.invalid", NoAuth{})
	cursorURL := srv.URL + "/api/v3/search/stories?next=abc123&page_size=25"
	if _, err := client.Do(context.Background(), &Request{Method: "GET", Path: cursorURL}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotPath != "/api/v3/search/stories?next=abc123&page_size=25" {
		t.Errorf("cursor URL not replayed verbatim: %q", gotPath)
	}
}
