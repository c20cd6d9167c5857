package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// configFileNames are read from every config directory, later names winning.
var configFileNames = []string{"boatbus.json", "boatbus.jsonc"}

// Paths holds the per-user boatbus directories.
type Paths struct {
	Data   string // boat storage
	Config string // config files and the default seed
}

// GetPaths resolves the boatbus directories from the XDG variables.
// BOATBUS_CONFIG_DIR replaces the config directory outright.
func GetPaths() *Paths {
	p := &Paths{
		Data:   xdgDir("XDG_DATA_HOME", ".local", "share"),
		Config: xdgDir("XDG_CONFIG_HOME", ".config"),
	}
	if dir := os.Getenv("BOATBUS_CONFIG_DIR"); dir != "" {
		p.Config = dir
	}
	return p
}

// xdgDir returns the boatbus directory under env, or under home/rel when env
// is unset. Windows falls back to APPDATA.
func xdgDir(env string, rel ...string) string {
	base := os.Getenv(env)
	if base == "" {
		if runtime.GOOS == "windows" {
			base = os.Getenv("APPDATA")
		} else {
			base = filepath.Join(append([]string{os.Getenv("HOME")}, rel...)...)
		}
	}
	return filepath.Join(base, "boatbus")
}

// EnsurePaths creates the data and config directories.
func (p *Paths) EnsurePaths() error {
	for _, dir := range []string{p.Data, p.Config} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// StoragePath is the default boat storage directory.
func (p *Paths) StoragePath() string {
	return filepath.Join(p.Data, "storage")
}

// SeedPath is the seed file used when none is configured.
func (p *Paths) SeedPath() string {
	return filepath.Join(p.Config, "seed.yaml")
}

// configFiles lists the candidate config files in dir, in load order.
func configFiles(dir string) []string {
	files := make([]string, len(configFileNames))
	for i, name := range configFileNames {
		files[i] = filepath.Join(dir, name)
	}
	return files
}

// ProjectConfigPath is where Save writes a project's config.
func ProjectConfigPath(directory string) string {
	return configFiles(filepath.Join(directory, ".boatbus"))[0]
}
