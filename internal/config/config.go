// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Page      PageConfig
	Storage   StorageConfig
	Index     IndexConfig
	Keywords  KeywordsConfig
	Detection DetectionConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 0, SSE streams stay open)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// PageConfig holds configuration of the photo album page.
type PageConfig struct {
	// SearchEndpoint is the URL the page queries with ?q=.
	// Empty means pages search the local index in process.
	SearchEndpoint string
	// StatusAutoHide is how long a success status stays visible (default: 5s).
	StatusAutoHide time.Duration
	// MaxUploadBytes caps the multipart upload body (default: 32 MiB).
	MaxUploadBytes int64
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Region string
	Bucket string
	// Endpoint overrides the S3 endpoint, for S3-compatible local stores.
	// Setting it switches to path-style addressing.
	Endpoint string
	// PublicURL is the base of the URLs returned in search results
	// (default: https://{bucket}.s3.amazonaws.com).
	PublicURL string
}

// IndexConfig holds search index configuration.
type IndexConfig struct {
	Path string
}

// KeywordsConfig holds query interpretation configuration. Without a bot ID
// keywords are extracted locally.
type KeywordsConfig struct {
	BotID      string
	BotAliasID string
	LocaleID   string
}

// DetectionConfig holds image label detection configuration.
type DetectionConfig struct {
	Enabled bool
}

// RateLimitConfig holds the limits of the JSON search route.
type RateLimitConfig struct {
	SearchPerMinute int
	SearchBurst     int
}

// LoadConfig loads configuration from the process arguments. See Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("photoalbum", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 0, disabled)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	// Page flags
	searchEndpoint := fs.String("search-endpoint", "", "Search endpoint queried by the page")
	statusAutoHide := fs.String("status-autohide", "", "Success status visibility (default: 5s)")
	maxUploadBytes := fs.String("max-upload-bytes", "", "Maximum upload size in bytes (default: 33554432)")

	// Storage flags
	region := fs.String("region", "", "AWS region (default: us-east-1)")
	bucket := fs.String("bucket", "", "S3 bucket holding the photos")
	endpoint := fs.String("s3-endpoint", "", "S3 endpoint override")
	publicURL := fs.String("public-url", "", "Base URL of photo links")

	indexPath := fs.String("index-path", "", "Search index directory")
	detectLabels := fs.String("detect-labels", "", "Detect image labels when indexing (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Page: PageConfig{
			SearchEndpoint: getConfigValue(*searchEndpoint, "PAGE_SEARCH_ENDPOINT", ""),
			MaxUploadBytes: int64(getIntConfigValue(*maxUploadBytes, "PAGE_MAX_UPLOAD_BYTES", 32<<20)),
		},
		Storage: StorageConfig{
			Region:    getConfigValue(*region, "AWS_REGION", "us-east-1"),
			Bucket:    getConfigValue(*bucket, "S3_BUCKET", ""),
			Endpoint:  getConfigValue(*endpoint, "AWS_ENDPOINT_URL", ""),
			PublicURL: getConfigValue(*publicURL, "S3_PUBLIC_URL", ""),
		},
		Index: IndexConfig{
			Path: getConfigValue(*indexPath, "INDEX_PATH", ""),
		},
		Keywords: KeywordsConfig{
			BotID:      getConfigValue("", "LEX_BOT_ID", ""),
			BotAliasID: getConfigValue("", "LEX_BOT_ALIAS_ID", ""),
			LocaleID:   getConfigValue("", "LEX_LOCALE_ID", "en_US"),
		},
		Detection: DetectionConfig{
			Enabled: getBoolConfigValue(*detectLabels, "DETECT_LABELS", true),
		},
		RateLimit: RateLimitConfig{
			SearchPerMinute: getIntConfigValue("", "SEARCH_RATE_PER_MINUTE", 120),
			SearchBurst:     getIntConfigValue("", "SEARCH_RATE_BURST", 20),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "0s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.Page.StatusAutoHide, err = parseDuration(*statusAutoHide, "PAGE_STATUS_AUTOHIDE", "5s"); err != nil {
		return nil, fmt.Errorf("invalid status auto-hide delay: %w", err)
	}

	if err := cfg.expandIndexPath(); err != nil {
		return nil, fmt.Errorf("invalid index path: %w", err)
	}

	if cfg.Storage.PublicURL == "" && cfg.Storage.Bucket != "" {
		cfg.Storage.PublicURL = domain.BucketURL(cfg.Storage.Bucket)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}

	if c.Index.Path == "" {
		return errors.New("index path cannot be empty after expansion")
	}

	if c.Page.SearchEndpoint != "" {
		if err := validateURL(c.Page.SearchEndpoint); err != nil {
			return fmt.Errorf("invalid PAGE_SEARCH_ENDPOINT: %w", err)
		}
	}
	if c.Storage.Endpoint != "" {
		if err := validateURL(c.Storage.Endpoint); err != nil {
			return fmt.Errorf("invalid AWS_ENDPOINT_URL: %w", err)
		}
	}

	if c.Page.StatusAutoHide <= 0 {
		return errors.New("status auto-hide delay must be positive")
	}
	if c.Page.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}

	// Lex is all or nothing; the local extractor is used otherwise.
	if c.Keywords.BotID != "" && c.Keywords.BotAliasID == "" {
		return errors.New("LEX_BOT_ALIAS_ID is required when LEX_BOT_ID is set")
	}

	if c.RateLimit.SearchPerMinute <= 0 || c.RateLimit.SearchBurst <= 0 {
		return errors.New("search rate limits must be positive")
	}

	return nil
}

// UsesLex reports whether queries are interpreted by a Lex bot.
func (c *Config) UsesLex() bool {
	return c.Keywords.BotID != ""
}

// UsesRemotePageSearch reports whether pages query an external search
// endpoint instead of the local index.
func (c *Config) UsesRemotePageSearch() bool {
	return c.Page.SearchEndpoint != ""
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandIndexPath defaults the index to ~/PhotoAlbum/index.
func (c *Config) expandIndexPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "PhotoAlbum", "index")

	expanded, err := expandPath(c.Index.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Index.Path = expanded
	return nil
}

func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", envKey, raw, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
