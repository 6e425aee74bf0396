package models

import (
	"path/filepath"
	"time"
)

// BuildConfig contains configuration for validation and compilation runs
type BuildConfig struct {
	// Input layout, relative to RootDir unless absolute
	RootDir     string
	PackagesDir string
	GroupsDir   string
	SchemasDir  string
	Extension   string // Source record extension, including the dot

	// Output
	OutputDir   string
	Compression string // none, gzip, zstd or xz

	// Signing
	GPGKeyPath    string
	GPGPassphrase string

	// Timestamp recorded as last_updated. Zero means the current time.
	BuildTime time.Time

	// RequireSchemas makes missing schema files a hard error
	RequireSchemas bool
}

// Defaults for BuildConfig fields
const (
	DefaultPackagesDir = "packages"
	DefaultGroupsDir   = "groups"
	DefaultSchemasDir  = "schemas"
	DefaultExtension   = ".yaml"
	DefaultOutputDir   = "target"
	DefaultCompression = "none"

	PackageSchemaFile = "package.schema.json"
	GroupSchemaFile   = "group.schema.json"

	DatabaseFile  = "packages.db"
	ChecksumFile  = "packages.db.sha256"
	SignatureFile = "packages.db.asc"
	PublicKeyFile = "packages.db.pub"
)

// ApplyDefaults fills unset fields with their defaults
func (c *BuildConfig) ApplyDefaults() {
	if c.RootDir == "" {
		c.RootDir = "."
	}
	if c.PackagesDir == "" {
		c.PackagesDir = DefaultPackagesDir
	}
	if c.GroupsDir == "" {
		c.GroupsDir = DefaultGroupsDir
	}
	if c.SchemasDir == "" {
		c.SchemasDir = DefaultSchemasDir
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.Extension[0] != '.' {
		c.Extension = "." + c.Extension
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Compression == "" {
		c.Compression = DefaultCompression
	}
}

// Path resolves p against RootDir unless it is already absolute
func (c *BuildConfig) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}
