// Package http provides a generic HTTP base connector for REST API sources.
// This serves as the foundation for connectors like Shortcut.
//
// Structure:
//
//	client.go     - HTTP client with rate limiting and optional retry
//	auth.go       - Authentication strategies (token header, bearer, basic)
//	paginator.go  - Pagination helpers (opaque cursor chaining)
package http
