package config

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-ionicdose/dilution"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "root:root@tcp(127.0.0.1:3306)/ionicdose?parseTime=true&charset=utf8mb4", cfg.Database.DSN())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
database:
  enabled: false
auth:
  token_ttl: 2h
logging:
  level: debug
dilution:
  profiles_file: profiles.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("IONIC_JWT_SECRET", "from-env")
	t.Setenv("IONIC_DB_HOST", "db:3306")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "db:3306", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "profiles.yaml", cfg.Dilution.ProfilesFile)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"bad ttl", func(c *Config) { c.Auth.TokenTTL = "soon" }},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = "-1h" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Database = DatabaseConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = NewLogger(LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestLoadProfiles(t *testing.T) {
	set, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, dilution.DefaultProfilesVersion, set.Version)
	assert.Equal(t, dilution.DefaultProfiles(), set.Profiles)

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	body := `
version: "2"
profiles:
  - id: greenhouse
    label: Greenhouse
    category: farm
    dilution_ratio: 1500
    icon: tractor
  - id: aquarium
    label: Aquarium
    dilution_ratio: 4000
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	set, err = LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, "2", set.Version)
	profiles := set.Profiles
	require.Len(t, profiles, 2)
	assert.Equal(t, "greenhouse", profiles[0].ID)
	assert.Equal(t, 1500.0, profiles[0].DilutionRatio)
	assert.Equal(t, "tractor", profiles[0].Icon)
	assert.Equal(t, 4000.0, profiles[1].DilutionRatio)
}

func TestLoadProfiles_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - id: bad\n    dilution_ratio: 0\n"), 0o644))

	_, err := LoadProfiles(path)
	assert.ErrorIs(t, err, dilution.ErrInvalidRatio)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadProfiles_MissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - id: a\n    dilution_ratio: 100\n"), 0o644))

	set, err := LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, UnversionedProfiles, set.Version)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	migrations := Migrations()
	// 第一个迁移已执行
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM migrations WHERE name = ?")).
		WithArgs(migrations[0].Name).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM migrations WHERE name = ?")).
		WithArgs(migrations[1].Name).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS dose_records").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO migrations (name) VALUES (?)")).
		WithArgs(migrations[1].Name).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, Migrate(db, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
