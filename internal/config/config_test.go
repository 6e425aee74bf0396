package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestResolvePrecedence(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(`
packages_dir: data/packages
output_dir: dist
compression: zstd
extension: yml
`), 0644))

	build := &models.BuildConfig{RootDir: root, OutputDir: "out"}
	require.NoError(t, Resolve(build, ""))

	assert.Equal(t, "data/packages", build.PackagesDir)
	assert.Equal(t, "out", build.OutputDir, "explicit values win over the file")
	assert.Equal(t, "zstd", build.Compression)
	assert.Equal(t, ".yml", build.Extension)
	assert.Equal(t, models.DefaultGroupsDir, build.GroupsDir)
	assert.Equal(t, filepath.Join(root, "data/packages"), build.Path(build.PackagesDir))
}

func TestResolveExplicitConfigMustExist(t *testing.T) {
	build := &models.BuildConfig{RootDir: t.TempDir()}
	err := Resolve(build, filepath.Join(t.TempDir(), "custom.yaml"))
	require.Error(t, err)

	var pkgErr *models.PkgDBError
	require.True(t, errors.As(err, &pkgErr))
	assert.Equal(t, models.ErrInvalidConfig, pkgErr.Type)
}

func TestResolveReadsEnvironment(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("PKGDB_GPG_PASSPHRASE=from-dotenv\n"), 0600))
	t.Setenv(EnvSourceDateEpoch, "1700000000")
	t.Setenv(EnvGPGPassphrase, "")
	os.Unsetenv(EnvGPGPassphrase)

	build := &models.BuildConfig{RootDir: root}
	require.NoError(t, Resolve(build, ""))

	assert.Equal(t, "from-dotenv", build.GPGPassphrase)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), build.BuildTime)
}

func TestParseEpoch(t *testing.T) {
	ts, err := ParseEpoch("0")
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01T00:00:00Z", ts.Format(time.RFC3339))

	_, err = ParseEpoch("yesterday")
	assert.Error(t, err)
	_, err = ParseEpoch("-5")
	assert.Error(t, err)
}
