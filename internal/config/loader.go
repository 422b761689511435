package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the directory under the user's home holding the config.
	ConfigDirName = ".gltfimport"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

// ErrConfigExists is returned by Init when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// envRefPattern matches ${NAME} and ${NAME:-fallback}.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// Loader reads and writes one configuration file.
type Loader struct {
	path string
}

// NewLoader returns a loader for $GLTFIMPORT_CONFIG, or for
// ~/.gltfimport/config.yaml when that is unset.
func NewLoader() (*Loader, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return NewLoaderWithPath(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewLoaderWithPath(filepath.Join(home, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath returns a loader for an explicit file.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{path: path}
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.path
}

// Exists reports whether the configuration file is present.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Load reads the file with ${VAR} references expanded. A missing file
// yields the defaults.
func (l *Loader) Load() (*Config, error) {
	return l.read(true)
}

// LoadRaw reads the file as written, for editing and display.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if expand {
		data = expandEnvVars(data)
	}

	// Keys absent from the file keep their defaults.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", l.path, err)
	}
	return cfg, nil
}

// Save writes cfg, replacing the file atomically.
func (l *Loader) Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+ConfigFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes the default configuration. An existing file is kept unless
// force is set, in which case it is overwritten.
func (l *Loader) Init(force bool) error {
	if !force && l.Exists() {
		return fmt.Errorf("%w: %s", ErrConfigExists, l.path)
	}
	return l.Save(DefaultConfig())
}

// expandEnvVars substitutes ${NAME} with the variable's value, or with the
// text after ":-" when the variable is unset or empty.
func expandEnvVars(data []byte) []byte {
	return envRefPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		m := envRefPattern.FindSubmatch(match)
		if v := os.Getenv(string(m[1])); v != "" {
			return []byte(v)
		}
		return m[2]
	})
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool reports whether the variable is "true", "1" or "yes".
func GetEnvBool(key string) bool {
	switch os.Getenv(key) {
	case "true", "TRUE", "True", "1", "yes", "YES", "Yes":
		return true
	}
	return false
}
