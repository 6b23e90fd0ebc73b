package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docussandra/docussandra-go/pkg/connection"
	"github.com/docussandra/docussandra-go/pkg/logger"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"trims trailing slash", func(c *Config) { c.URL = "http://db:19080/" }, false},
		{"missing url", func(c *Config) { c.URL = "" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"password without user", func(c *Config) { c.Password = "secret" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://db:19080", cfg.URL)
		})
	}
}

func TestCredentials(t *testing.T) {
	cfg := Config{User: "u", Password: "p"}
	assert.Equal(t, connection.BasicAuth{Username: "u", Password: "p"}, cfg.Credentials())

	cfg.Token = "t"
	assert.Equal(t, connection.BearerToken("t"), cfg.Credentials())

	assert.Nil(t, Config{}.Credentials())
}

func TestConnectionConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token = "t"
	cfg.Timeout = 3 * time.Second

	cc, err := cfg.ConnectionConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cc.BaseURL)
	assert.Equal(t, 3*time.Second, cc.Timeout)
	assert.Equal(t, connection.BearerToken("t"), cc.Credentials)

	cfg.URL = "ftp://nope"
	_, err = cfg.ConnectionConfig(nil)
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{User: "u", Password: "p", Token: "t"}
	r := cfg.Redacted()
	assert.Equal(t, "*****", r.Password)
	assert.Equal(t, "*****", r.Token)
	assert.Equal(t, "p", cfg.Password)
}

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name     string
		fc       FileConfig
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name:     "applies all values",
			fc:       FileConfig{URL: "http://file", User: "u", Password: "p", Token: "t", Timeout: "5s", LogLevel: "debug"},
			changed:  map[string]bool{},
			expected: Config{URL: "http://file", User: "u", Password: "p", Token: "t", Timeout: 5 * time.Second, LogLevel: "debug"},
		},
		{
			name:     "respects changed flags",
			fc:       FileConfig{URL: "http://file", Timeout: "5s"},
			changed:  map[string]bool{"url": true},
			initial:  Config{URL: "http://flag"},
			expected: Config{URL: "http://flag", Timeout: 5 * time.Second},
		},
		{
			name:     "empty values keep the current ones",
			fc:       FileConfig{},
			initial:  Config{URL: "http://default", LogLevel: "warn"},
			expected: Config{URL: "http://default", LogLevel: "warn"},
		},
		{
			name:    "invalid duration",
			fc:      FileConfig{Timeout: "soon"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fc, tt.changed)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
url = "http://db:19080"
user = "admin"
password = "secret"
timeout = "10s"
log_level = "info"
`), 0o600))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, FileConfig{URL: "http://db:19080", User: "admin", Password: "secret", Timeout: "10s", LogLevel: "info"}, fc)
	assert.True(t, FileExists(path))

	_, err = LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("url = "), 0o600))
	_, err = LoadFileConfig(bad)
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".docussandra", "config.toml"), DefaultConfigPath())
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("DOCUSSANDRA_URL", "http://env")
	t.Setenv("DOCUSSANDRA_TOKEN", "tok")
	t.Setenv("DOCUSSANDRA_TIMEOUT", "7s")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnvConfig(&cfg, map[string]bool{"token": true}))
	assert.Equal(t, "http://env", cfg.URL)
	assert.Equal(t, "", cfg.Token)
	assert.Equal(t, 7*time.Second, cfg.Timeout)

	t.Setenv("DOCUSSANDRA_TIMEOUT", "later")
	assert.Error(t, ApplyEnvConfig(&cfg, map[string]bool{}))
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
url = "http://file"
user = "file-user"
timeout = "1s"
log_level = "debug"
`), 0o600))
	t.Setenv("DOCUSSANDRA_URL", "http://env")
	t.Setenv("DOCUSSANDRA_TIMEOUT", "2s")

	// --timeout=3s was passed on the command line
	cfg := DefaultConfig()
	cfg.Timeout = 3 * time.Second
	require.NoError(t, Load(&cfg, path, map[string]bool{"timeout": true}))

	assert.Equal(t, "http://env", cfg.URL)
	assert.Equal(t, "file-user", cfg.User)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFileIsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Load(&cfg, filepath.Join(t.TempDir(), "none.toml"), nil))
	assert.Equal(t, DefaultURL, cfg.URL)
}
