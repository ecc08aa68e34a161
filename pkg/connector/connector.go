// Package connector registers all connectors.
package connector

import (
	// Import all connectors to register them
	_ "github.com/fathomdata/shortcut-source/internal/connector/shortcut"
)

// All imports trigger init() functions that register connectors.
