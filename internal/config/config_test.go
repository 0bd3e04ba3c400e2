package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "postgres://u:p@localhost:5432/contacts?sslmode=disable")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, 3000, cfg.HTTPServer.Port)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
	assert.Equal(t, ReadPolicyOwner, cfg.Contacts.ReadPolicy)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, AvatarStorageDisk, cfg.Avatars.Storage)
	assert.Equal(t, "public/avatars", cfg.Avatars.Dir)
	assert.Equal(t, "temp", cfg.Avatars.TempDir)
	assert.Equal(t, int64(5<<20), cfg.Avatars.MaxBytes)
	assert.Equal(t, 15*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8081")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CONTACT_READ_POLICY", "authenticated")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTPServer.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TokenTTL)
	assert.Equal(t, ReadPolicyAuthenticated, cfg.Contacts.ReadPolicy)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_HOST", "")
	os.Unsetenv("DB_HOST")
	t.Setenv("JWT_SECRET", "x")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("CONTACT_READ_POLICY", "everyone")
	t.Setenv("AVATAR_STORAGE", "s3")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTACT_READ_POLICY")
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
db_host: postgres://u:p@db:5432/contacts
jwt:
  secret: from-file
  token_ttl: 2h
http_server:
  port: 9000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 9000, cfg.HTTPServer.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
