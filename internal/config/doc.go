// Package config provides configuration loading, merging, and path management for boatbus.
//
// # Configuration Loading
//
// Load searches for and merges configuration from multiple sources in priority order:
//
//  1. Global config (~/.config/boatbus/boatbus.json[c])
//  2. Project config (boatbus.json[c] and .boatbus/boatbus.json[c] in the directory)
//  3. BOATBUS_CONFIG file
//  4. BOATBUS_CONFIG_CONTENT inline JSON
//  5. Environment variables
//
// Later sources override earlier ones. Resolve fills whatever is still unset
// with the package defaults.
//
// # Supported Formats
//
// Both JSON and JSONC (JSON with Comments) are accepted; comments are stripped
// with tidwall/jsonc.
//
// # Variable Interpolation
//
// Configuration files support two placeholders:
//   - {env:VAR_NAME} - Expands to environment variable values
//   - {file:path} - Expands to file contents (escaped for JSON)
//
// Relative file paths, including the "storage" and "seed" settings, are
// resolved against the directory of the config file that names them.
//
//	{
//	  // boats live next to the project
//	  "storage": "./data",
//	  "seed": "{env:BOATBUS_FIXTURES}/boats.yaml",
//	  "server": {"port": 8080, "cors": ["http://localhost:3000"]},
//	  "events": {"mirror": ["boat.*", "boat.search.**"]}
//	}
//
// # Environment Variable Overrides
//
//   - BOATBUS_PORT - HTTP port
//   - BOATBUS_HOSTNAME - HTTP bind address
//   - BOATBUS_STORAGE - Storage directory
//   - BOATBUS_SEED - Seed file
//   - BOATBUS_LOG_LEVEL - Log level
//   - BOATBUS_CONFIG_DIR - Override the config directory location
//
// # Path Management
//
// Paths follows the XDG Base Directory layout (XDG_DATA_HOME and
// XDG_CONFIG_HOME), using APPDATA on Windows. A seed.yaml in the config
// directory is used as the seed when none is configured.
package config
