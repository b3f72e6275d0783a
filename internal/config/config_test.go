package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Data.Backend = BackendSQLite
	cfg.Backup.Git = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Data.Dir)
	assert.Equal(t, BackendFile, cfg.Data.Backend)
	assert.Equal(t, "financeData", cfg.Data.Key)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "backups", cfg.Backup.Dir)
	assert.False(t, cfg.Backup.Git)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "key: financeData")
	assert.Contains(t, contents, "author_email: tally@localhost")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Data.Backend = "postgres"
	cfg.Data.Key = "a/b"
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Backup.Git = true
	cfg.Backup.AuthorEmail = ""

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"data.backend", "data.key", "logging.level", "logging.format", "backup.git"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestResolve_FileAndRelativeDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Data.Dir = "ledger"
	cfg.Logging.Level = "debug"
	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Resolve(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ledger"), got.Data.Dir)
	assert.Equal(t, filepath.Join(dir, "backups"), got.Backup.Dir)
	assert.Equal(t, "debug", got.Logging.Level)
	assert.Equal(t, "financeData", got.Data.Key)
}

func TestResolve_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, Default()))

	abs := filepath.Join(t.TempDir(), "elsewhere")
	t.Setenv("TALLY_DATA_DIR", abs)
	t.Setenv("TALLY_DATA_BACKEND", "sqlite")
	t.Setenv("TALLY_BACKUP_GIT", "true")

	got, err := Resolve(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, abs, got.Data.Dir)
	assert.Equal(t, BackendSQLite, got.Data.Backend)
	assert.True(t, got.Backup.Git)
}

func TestResolve_MissingExplicitFile(t *testing.T) {
	_, err := Resolve(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("data:\n  backend: floppy\n"), 0o644))

	_, err := Resolve(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.backend")
}
