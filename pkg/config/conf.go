package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/scisight/interdisc/pkg/data"
	"github.com/scisight/interdisc/pkg/interdisc"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

// StoreConfig selects and connects the citation store.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is the sqlite file path or the postgres connection string.
	DSN string `yaml:"dsn"`
	// Source names the registered schema (e.g. "mag", "jstor").
	Source string `yaml:"source"`
	// PasswordFromKeyring injects the keyring-held password into the
	// postgres DSN at connect time.
	PasswordFromKeyring bool `yaml:"password_from_keyring,omitempty"`
	// BatchSize caps paper IDs per counting query; 0 means the default.
	BatchSize int `yaml:"batch_size,omitempty"`
}

// MatrixConfig locates the persisted venue citation matrix.
type MatrixConfig struct {
	MatrixFile   string `yaml:"matrix_file"`
	VenueIDsFile string `yaml:"venue_ids_file"`
	// Delimiter for the venue-ID file; empty means ",".
	Delimiter string `yaml:"delimiter,omitempty"`
}

// Config represents the app config object.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Matrix MatrixConfig `yaml:"matrix"`
	// Sources registers additional schema descriptors beyond the
	// built-in ones.
	Sources []*data.Schema `yaml:"sources,omitempty"`
}

func getDefaultConfig(dirPath string) *Config {
	return &Config{
		Store: StoreConfig{
			Driver:    data.DriverSQLite,
			DSN:       filepath.Join(dirPath, "citations.db"),
			Source:    "jstor",
			BatchSize: interdisc.QueryBatchSizeDefault,
		},
		Matrix: MatrixConfig{
			MatrixFile:   filepath.Join(dirPath, "venue_matrix.mtx"),
			VenueIDsFile: filepath.Join(dirPath, "venue_ids.csv"),
		},
	}
}

// Save writes the config into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads the app config from a directory, creating a
// default one on first run. Custom source schemas found in the config
// are registered before it is returned.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig(dirPath)); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}

	for _, s := range c.Sources {
		if err := data.RegisterSchema(s); err != nil {
			return nil, errors.Wrapf(err, "invalid source schema in config: %s", path)
		}
	}

	slog.Debug("config loaded", "path", path, "source", c.Store.Source)
	return &c, nil
}

// GetOrCreateHomeDir returns the app home directory for the current
// user. The created flag is set when the directory did not exist.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating app home dir", "dir", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
