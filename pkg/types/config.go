package types

// Config represents the boatbus configuration.
type Config struct {
	// Schema reference (for editor support)
	Schema string `json:"$schema,omitempty"`

	// HTTP server
	Server *ServerConfig `json:"server,omitempty"`

	// Directory holding boats, boat types and reviews
	Storage string `json:"storage,omitempty"`

	// YAML seed file loaded into an empty store
	Seed string `json:"seed,omitempty"`

	// Reload the seed file when it changes on disk
	WatchSeed bool `json:"watchSeed,omitempty"`

	// Log level: debug|info|warn|error
	LogLevel string `json:"logLevel,omitempty"`

	// Boat lookup cache
	Cache *CacheConfig `json:"cache,omitempty"`

	// Event mirror settings
	Events *EventsConfig `json:"events,omitempty"`

	// Location used by BoatsNearMe when the client sends none
	Location *GeoPoint `json:"location,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int      `json:"port,omitempty"`
	Hostname string   `json:"hostname,omitempty"`
	CORS     []string `json:"cors,omitempty"` // allowed origins, empty = any
}

// CacheConfig holds boat cache settings.
type CacheConfig struct {
	Size     int  `json:"size,omitempty"` // entries, 0 = default
	Disabled bool `json:"disabled,omitempty"`
}

// EventsConfig holds settings for mirroring bus traffic to SSE and WebSocket clients.
type EventsConfig struct {
	Buffer int64    `json:"buffer,omitempty"`
	Mirror []string `json:"mirror,omitempty"` // channel globs, empty = all
}
