package api

// APIResponse represents a standard JSON API response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StoredDocument is returned when a conversion result is persisted
type StoredDocument struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

// ServerConfig holds configuration for the conversion service
type ServerConfig struct {
	Port      int
	Bind      string
	APIKey    string
	StorePath string // Pebble directory for stored conversions; empty disables storage
	Indent    int    // Spaces per XML indent level in decode output
}
