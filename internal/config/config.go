package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Environment variables consulted when the matching flag is unset
const (
	EnvGPGPassphrase   = "PKGDB_GPG_PASSPHRASE"
	EnvSourceDateEpoch = "SOURCE_DATE_EPOCH"
)

const ConfigFileName = "pkgdb.yaml"

// ProjectConfig is the optional pkgdb.yaml at the root of a source tree
type ProjectConfig struct {
	PackagesDir string `yaml:"packages_dir"`
	GroupsDir   string `yaml:"groups_dir"`
	SchemasDir  string `yaml:"schemas_dir"`
	Extension   string `yaml:"extension"`
	OutputDir   string `yaml:"output_dir"`
	Compression string `yaml:"compression"`
	GPGKey      string `yaml:"gpg_key,omitempty"`
}

// Load reads the project config at path
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyTo fills the fields of build that are still unset
func (p *ProjectConfig) ApplyTo(build *models.BuildConfig) {
	setIfEmpty(&build.PackagesDir, p.PackagesDir)
	setIfEmpty(&build.GroupsDir, p.GroupsDir)
	setIfEmpty(&build.SchemasDir, p.SchemasDir)
	setIfEmpty(&build.Extension, p.Extension)
	setIfEmpty(&build.OutputDir, p.OutputDir)
	setIfEmpty(&build.Compression, p.Compression)
	setIfEmpty(&build.GPGKeyPath, p.GPGKey)
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// LoadEnv loads root/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Resolve completes build from the project file under its root, the
// environment and the built-in defaults, in that order of precedence
// below values already set on build.
func Resolve(build *models.BuildConfig, configPath string) error {
	if build.RootDir == "" {
		build.RootDir = "."
	}

	if err := LoadEnv(build.RootDir); err != nil {
		return &models.PkgDBError{Type: models.ErrInvalidConfig, Err: fmt.Errorf("failed to load .env: %w", err)}
	}

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(build.RootDir, ConfigFileName)
	}

	project, err := Load(configPath)
	switch {
	case err == nil:
		project.ApplyTo(build)
	case errors.Is(err, ErrConfigNotFound) && !explicit:
		// optional
	default:
		return &models.PkgDBError{Type: models.ErrInvalidConfig, Path: configPath, Err: err}
	}

	if build.GPGPassphrase == "" {
		build.GPGPassphrase = os.Getenv(EnvGPGPassphrase)
	}

	if build.BuildTime.IsZero() {
		t, err := BuildTimeFromEnv()
		if err != nil {
			return &models.PkgDBError{Type: models.ErrInvalidConfig, Err: err}
		}
		build.BuildTime = t
	}

	build.ApplyDefaults()
	return nil
}

// BuildTimeFromEnv parses SOURCE_DATE_EPOCH. It returns the zero time when unset.
func BuildTimeFromEnv() (time.Time, error) {
	value := os.Getenv(EnvSourceDateEpoch)
	if value == "" {
		return time.Time{}, nil
	}
	return ParseEpoch(value)
}

// ParseEpoch parses a Unix timestamp in seconds
func ParseEpoch(value string) (time.Time, error) {
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil || secs < 0 {
		return time.Time{}, fmt.Errorf("invalid epoch %q: expected non-negative seconds", value)
	}
	return time.Unix(secs, 0).UTC(), nil
}
