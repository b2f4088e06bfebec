package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vhv.json"

	// EnvFileName is the dotenv file read next to the configuration file.
	EnvFileName = ".env"

	// DefaultTemplatesDir is the default registry directory.
	DefaultTemplatesDir = "templates"

	// DefaultPort is the default API server port.
	DefaultPort = 4600

	// DefaultHost is the default API server host.
	DefaultHost = "localhost"

	// DefaultMaxFileSize is the largest source file the analyzer reads.
	DefaultMaxFileSize = 1 << 20

	// DefaultCacheSize is the number of per-file analysis results kept in memory.
	DefaultCacheSize = 4096

	// DefaultRemotePrefix is the key prefix used for the template mirror.
	DefaultRemotePrefix = "templates"
)

// Config represents the complete vhv.json configuration.
type Config struct {
	// TemplatesDir is the registry directory holding one directory per template.
	TemplatesDir string `json:"templatesDir,omitempty"`

	// FrameworkManifest is an optional package.json whose dependencies replace
	// the built-in framework dependency set.
	FrameworkManifest string `json:"frameworkManifest,omitempty"`

	// Analysis contains source analyzer settings.
	Analysis AnalysisConfig `json:"analysis,omitempty"`

	// Import contains import orchestrator settings.
	Import ImportConfig `json:"import,omitempty"`

	// Remote contains the object store mirror settings.
	Remote RemoteConfig `json:"remote,omitempty"`

	// Server contains API server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Metrics contains metrics export settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// AnalysisConfig contains analyzer settings.
type AnalysisConfig struct {
	// Workers is the number of files scanned in parallel.
	Workers int `json:"workers,omitempty"`

	// MaxFileSize is the largest file, in bytes, the analyzer will read.
	MaxFileSize int64 `json:"maxFileSize,omitempty"`

	// CacheSize is the LRU size for per-file results (0 disables caching).
	CacheSize int `json:"cacheSize,omitempty"`
}

// ImportConfig contains import settings.
type ImportConfig struct {
	// Timeout bounds a whole import (e.g., "5m"). Empty means no timeout.
	Timeout string `json:"timeout,omitempty"`

	// DefaultBranch is cloned when a remote source gives no branch.
	DefaultBranch string `json:"defaultBranch,omitempty"`
}

// RemoteConfig configures the S3-compatible template mirror.
type RemoteConfig struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// MetricsConfig contains metrics export settings.
type MetricsConfig struct {
	// Textfile, when set, receives a Prometheus text dump after each CLI import.
	Textfile string `json:"textfile,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		TemplatesDir: DefaultTemplatesDir,
		Analysis: AnalysisConfig{
			Workers:     runtime.GOMAXPROCS(0),
			MaxFileSize: DefaultMaxFileSize,
			CacheSize:   DefaultCacheSize,
		},
		Remote: RemoteConfig{
			Prefix: DefaultRemotePrefix,
			Region: "us-east-1",
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

// Load reads configuration from the specified directory. A missing vhv.json
// yields defaults rooted at dir.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = configPath
		loadEnvFile(dir)
		cfg.applyEnv()
		cfg.applyDefaults()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E404").WithPath(path).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E501").
			WithPath(path).
			WithDetail(err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	loadEnvFile(filepath.Dir(path))
	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

// loadEnvFile loads dir/.env into the process environment without
// overriding variables that are already set.
func loadEnvFile(dir string) {
	envPath := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(envPath); err != nil {
		return
	}
	_ = godotenv.Load(envPath)
}

// applyEnv overlays VHV_* environment variables on top of file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("VHV_TEMPLATES_DIR"); v != "" {
		c.TemplatesDir = v
	}
	if v := os.Getenv("VHV_FRAMEWORK_MANIFEST"); v != "" {
		c.FrameworkManifest = v
	}
	if v := os.Getenv("VHV_ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	if v := os.Getenv("VHV_IMPORT_TIMEOUT"); v != "" {
		c.Import.Timeout = v
	}
	if v := os.Getenv("VHV_REMOTE_BUCKET"); v != "" {
		c.Remote.Bucket = v
	}
	if v := os.Getenv("VHV_REMOTE_PREFIX"); v != "" {
		c.Remote.Prefix = v
	}
	if v := os.Getenv("VHV_REMOTE_REGION"); v != "" {
		c.Remote.Region = v
	}
	if v := os.Getenv("VHV_REMOTE_ENDPOINT"); v != "" {
		c.Remote.Endpoint = v
	}
	if v := os.Getenv("VHV_SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("VHV_SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("VHV_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E402").WithPath(path).Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E402").WithPath(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.TemplatesDir == "" {
		c.TemplatesDir = DefaultTemplatesDir
	}
	if c.Analysis.Workers <= 0 {
		c.Analysis.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Analysis.MaxFileSize <= 0 {
		c.Analysis.MaxFileSize = DefaultMaxFileSize
	}
	if c.Remote.Prefix == "" {
		c.Remote.Prefix = DefaultRemotePrefix
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E502").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Analysis.CacheSize < 0 {
		return errors.New("E502").
			WithDetail("analysis.cacheSize must not be negative")
	}
	if _, err := c.ImportTimeout(); err != nil {
		return errors.New("E502").
			WithDetail("import.timeout: " + err.Error()).
			WithSuggestion(`Use a Go duration such as "90s" or "5m"`)
	}
	return nil
}

// ImportTimeout parses Import.Timeout. Zero means no timeout.
func (c *Config) ImportTimeout() (time.Duration, error) {
	if c.Import.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Import.Timeout)
}

// TemplatesPath returns the absolute path to the registry directory.
func (c *Config) TemplatesPath() string {
	return c.resolve(c.TemplatesDir)
}

// FrameworkManifestPath returns the absolute framework manifest path, or ""
// when the built-in framework dependency set is used.
func (c *Config) FrameworkManifestPath() string {
	if c.FrameworkManifest == "" {
		return ""
	}
	return c.resolve(c.FrameworkManifest)
}

// ServerAddress returns the listen address for the API server.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// HasRemote reports whether an object store mirror is configured.
func (c *Config) HasRemote() bool {
	return c.Remote.Bucket != ""
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// vhv.json. It returns startDir itself when no parent has one.
func FindProjectRoot(startDir string) (string, error) {
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := start
	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration for the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
