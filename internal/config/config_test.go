package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Page:    PageConfig{StatusAutoHide: 5 * time.Second, MaxUploadBytes: 1 << 20},
		Storage: StorageConfig{Region: "us-east-1", Bucket: "photos"},
		Index:   IndexConfig{Path: "/var/lib/photoalbum/index"},
		RateLimit: RateLimitConfig{
			SearchPerMinute: 60,
			SearchBurst:     10,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing bucket", func(c *Config) { c.Storage.Bucket = "" }, "S3_BUCKET is required"},
		{"empty index path", func(c *Config) { c.Index.Path = "" }, "index path cannot be empty"},
		{"relative search endpoint", func(c *Config) { c.Page.SearchEndpoint = "/search" }, "PAGE_SEARCH_ENDPOINT"},
		{"ftp endpoint", func(c *Config) { c.Storage.Endpoint = "ftp://minio:9000" }, "AWS_ENDPOINT_URL"},
		{"zero auto-hide", func(c *Config) { c.Page.StatusAutoHide = 0 }, "auto-hide"},
		{"zero upload size", func(c *Config) { c.Page.MaxUploadBytes = 0 }, "max upload bytes"},
		{"bot without alias", func(c *Config) { c.Keywords.BotID = "BOT123" }, "LEX_BOT_ALIAS_ID"},
		{"zero rate", func(c *Config) { c.RateLimit.SearchPerMinute = 0 }, "rate limits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("S3_BUCKET", "photos-b2")
	t.Setenv("INDEX_PATH", "/tmp/photoalbum-index")

	cfg, err := Load([]string{"-env-file", "/nonexistent/.env"})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.Page.StatusAutoHide)
	assert.Equal(t, int64(32<<20), cfg.Page.MaxUploadBytes)
	assert.Equal(t, "https://photos-b2.s3.amazonaws.com", cfg.Storage.PublicURL)
	assert.Equal(t, "/tmp/photoalbum-index", cfg.Index.Path)
	assert.True(t, cfg.Detection.Enabled)
	assert.False(t, cfg.UsesLex())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("S3_BUCKET", "from-env")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PAGE_STATUS_AUTOHIDE", "2s")
	t.Setenv("INDEX_PATH", "/tmp/photoalbum-index")

	cfg, err := Load([]string{
		"-env-file", "/nonexistent/.env",
		"-bucket", "from-flag",
		"-status-autohide", "750ms",
		"-detect-labels", "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Storage.Bucket)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Page.StatusAutoHide)
	assert.False(t, cfg.Detection.Enabled)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("S3_BUCKET", "photos")
	t.Setenv("PAGE_STATUS_AUTOHIDE", "five seconds")

	_, err := Load([]string{"-env-file", "/nonexistent/.env"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_STATUS_AUTOHIDE")
}

func TestLoad_KeepsExplicitPublicURL(t *testing.T) {
	t.Setenv("S3_BUCKET", "photos")
	t.Setenv("S3_PUBLIC_URL", "http://localhost:9000/photos")
	t.Setenv("INDEX_PATH", "/tmp/photoalbum-index")

	cfg, err := Load([]string{"-env-file", "/nonexistent/.env"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/photos", cfg.Storage.PublicURL)
}

func TestUsesRemotePageSearch(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.UsesRemotePageSearch())

	cfg.Page.SearchEndpoint = "https://api.example.com/prod/search"
	assert.True(t, cfg.UsesRemotePageSearch())
}

func TestExpandIndexPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandIndexPath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "PhotoAlbum", "index"), cfg.Index.Path)
}

func TestExpandIndexPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Index: IndexConfig{Path: "~/photo-index"}}

	require.NoError(t, cfg.expandIndexPath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "photo-index"), cfg.Index.Path)
}

func TestExpandIndexPath_RelativePath(t *testing.T) {
	cfg := &Config{Index: IndexConfig{Path: "relative/index"}}

	require.NoError(t, cfg.expandIndexPath())

	assert.True(t, filepath.IsAbs(cfg.Index.Path))
	assert.Contains(t, cfg.Index.Path, "relative/index")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestGetBoolConfigValue(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes"} {
		assert.True(t, getBoolConfigValue(v, "UNSET_BOOL", false), v)
	}
	assert.False(t, getBoolConfigValue("off", "UNSET_BOOL", true))
	assert.True(t, getBoolConfigValue("", "UNSET_BOOL", true))
}

func TestGetIntConfigValue_InvalidFallsBack(t *testing.T) {
	t.Setenv("TEST_INT", "lots")
	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT", 7))
	assert.Equal(t, 42, getIntConfigValue("42", "TEST_INT", 7))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `# Test env file
PHOTO_TEST_BUCKET=staging-photos
PHOTO_TEST_LEVEL=debug
# Comment line
PHOTO_TEST_QUOTED="some value"
PHOTO_TEST_SINGLE='another value'
PHOTO_TEST_URL=http://localhost:9000/?a=b
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	keys := []string{"PHOTO_TEST_BUCKET", "PHOTO_TEST_LEVEL", "PHOTO_TEST_QUOTED", "PHOTO_TEST_SINGLE", "PHOTO_TEST_URL"}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k) //nolint:errcheck // t.Setenv restores it
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging-photos", os.Getenv("PHOTO_TEST_BUCKET"))
	assert.Equal(t, "debug", os.Getenv("PHOTO_TEST_LEVEL"))
	assert.Equal(t, "some value", os.Getenv("PHOTO_TEST_QUOTED"))
	assert.Equal(t, "another value", os.Getenv("PHOTO_TEST_SINGLE"))
	assert.Equal(t, "http://localhost:9000/?a=b", os.Getenv("PHOTO_TEST_URL"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}
