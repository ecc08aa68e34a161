package shortcut

import (
	"github.com/fathomdata/shortcut-source/internal/endpoint"
)

// init registers the Shortcut factory with the global registry.
func init() {
	endpoint.DefaultRegistry().Register("http.shortcut", func(config map[string]any) (endpoint.Endpoint, error) {
		cfg := &Config{
			BaseURL:  getString(config, "baseUrl", DefaultBaseURL),
			APIToken: getString(config, "apiToken", ""),
			PageSize: getInt(config, "pageSize", DefaultPageSize),
		}
		return New(cfg)
	})
}

// --- Config Helpers ---

func getString(m map[string]any, key, defaultVal string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return defaultVal
}

func getInt(m map[string]any, key string, defaultVal int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return defaultVal
}
