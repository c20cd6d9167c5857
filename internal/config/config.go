package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Defaults applied by Resolve.
const (
	DefaultPort      = 4096
	DefaultHostname  = "127.0.0.1"
	DefaultCacheSize = 256
	DefaultBuffer    = 100
	DefaultLogLevel  = "info"
)

var (
	envPattern  = regexp.MustCompile(`\{env:([^}]+)\}`)
	filePattern = regexp.MustCompile(`\{file:([^}]+)\}`)
)

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.config/boatbus/)
// 2. Project config (boatbus.json[c], .boatbus/)
// 3. BOATBUS_CONFIG file
// 4. BOATBUS_CONFIG_CONTENT inline JSON
// 5. Environment variables
func Load(directory string) (*types.Config, error) {
	config := &types.Config{}

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 1. XDG-compatible global config
	dirs := []string{GetConfigDir()}

	// 2. Project config
	if directory != "" {
		dirs = append(dirs, directory, filepath.Join(directory, ".boatbus"))
	}
	for _, dir := range dirs {
		for _, path := range configFiles(dir) {
			loadOnce(path, dir)
		}
	}

	// 3. BOATBUS_CONFIG file override
	if configPath := os.Getenv("BOATBUS_CONFIG"); configPath != "" {
		loadOnce(configPath, filepath.Dir(configPath))
	}

	// 4. BOATBUS_CONFIG_CONTENT inline JSON
	if configContent := os.Getenv("BOATBUS_CONFIG_CONTENT"); configContent != "" {
		var inlineConfig types.Config
		if err := json.Unmarshal(jsonc.ToJSON([]byte(configContent)), &inlineConfig); err == nil {
			mergeConfig(config, &inlineConfig)
		}
	}

	// 5. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	data = interpolate(data, baseDir)

	var fileConfig types.Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	// Relative storage and seed paths are relative to the file that names them
	fileConfig.Storage = resolvePath(fileConfig.Storage, baseDir)
	fileConfig.Seed = resolvePath(fileConfig.Seed, baseDir)

	mergeConfig(config, &fileConfig)
	return nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})

	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := resolvePath(filePattern.FindStringSubmatch(match)[1], baseDir)

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match // Keep original if file not found
		}

		// Escape for JSON string
		escaped := strings.ReplaceAll(strings.TrimRight(string(content), "\n"), "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		escaped = strings.ReplaceAll(escaped, "\n", "\\n")
		escaped = strings.ReplaceAll(escaped, "\r", "\\r")
		escaped = strings.ReplaceAll(escaped, "\t", "\\t")

		return escaped
	})

	return []byte(str)
}

func resolvePath(p, baseDir string) string {
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(os.Getenv("HOME"), p[2:])
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(baseDir, p)
	}
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *types.Config) {
	if source.Schema != "" {
		target.Schema = source.Schema
	}
	if source.Storage != "" {
		target.Storage = source.Storage
	}
	if source.Seed != "" {
		target.Seed = source.Seed
	}
	if source.WatchSeed {
		target.WatchSeed = true
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}

	// Merge server settings field by field
	if source.Server != nil {
		if target.Server == nil {
			target.Server = &types.ServerConfig{}
		}
		if source.Server.Port != 0 {
			target.Server.Port = source.Server.Port
		}
		if source.Server.Hostname != "" {
			target.Server.Hostname = source.Server.Hostname
		}
		if len(source.Server.CORS) > 0 {
			target.Server.CORS = append(target.Server.CORS, source.Server.CORS...)
		}
	}

	if source.Cache != nil {
		target.Cache = source.Cache
	}

	if source.Events != nil {
		if target.Events == nil {
			target.Events = &types.EventsConfig{}
		}
		if source.Events.Buffer != 0 {
			target.Events.Buffer = source.Events.Buffer
		}
		if len(source.Events.Mirror) > 0 {
			target.Events.Mirror = append(target.Events.Mirror, source.Events.Mirror...)
		}
	}

	if source.Location != nil {
		target.Location = source.Location
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *types.Config) {
	if port := os.Getenv("BOATBUS_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			if config.Server == nil {
				config.Server = &types.ServerConfig{}
			}
			config.Server.Port = n
		}
	}

	if hostname := os.Getenv("BOATBUS_HOSTNAME"); hostname != "" {
		if config.Server == nil {
			config.Server = &types.ServerConfig{}
		}
		config.Server.Hostname = hostname
	}

	if storage := os.Getenv("BOATBUS_STORAGE"); storage != "" {
		config.Storage = storage
	}

	if seed := os.Getenv("BOATBUS_SEED"); seed != "" {
		config.Seed = seed
	}

	if level := os.Getenv("BOATBUS_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
}

// Resolve fills unset fields with defaults. It modifies and returns config.
// Seed defaults to seed.yaml in the config directory, only when that file exists.
func Resolve(config *types.Config) *types.Config {
	if config.Server == nil {
		config.Server = &types.ServerConfig{}
	}
	if config.Server.Port == 0 {
		config.Server.Port = DefaultPort
	}
	if config.Server.Hostname == "" {
		config.Server.Hostname = DefaultHostname
	}
	if config.Storage == "" {
		config.Storage = GetPaths().StoragePath()
	}
	if config.Seed == "" {
		if path := GetPaths().SeedPath(); fileExists(path) {
			config.Seed = path
		}
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.Cache == nil {
		config.Cache = &types.CacheConfig{}
	}
	if config.Cache.Size == 0 {
		config.Cache.Size = DefaultCacheSize
	}
	if config.Events == nil {
		config.Events = &types.EventsConfig{}
	}
	if config.Events.Buffer == 0 {
		config.Events.Buffer = DefaultBuffer
	}
	return config
}

// Save saves the configuration to a file.
func Save(config *types.Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetConfigDir returns the config directory to use.
// Prefers BOATBUS_CONFIG_DIR, then ~/.config/boatbus.
func GetConfigDir() string {
	return GetPaths().Config
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
