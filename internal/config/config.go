package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/scrapsdev/scraps/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "scraps.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultPagesDir is the default directory holding page files.
	DefaultPagesDir = "pages"

	// DefaultExtension is the file extension of page files.
	DefaultExtension = ".space"

	// DefaultIndex is the page served at "/".
	DefaultIndex = "index"

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"

	// DefaultDebounce is the default file watcher debounce interval.
	DefaultDebounce = "100ms"

	// DefaultOutputDir is where scraps build writes the rendered site.
	DefaultOutputDir = "dist"
)

// Store drivers.
const (
	DriverDir = "dir"
	DriverS3  = "s3"
)

// Config represents the complete scraps.json configuration.
type Config struct {
	// Name is the site name.
	Name string `json:"name,omitempty"`

	// Site describes where pages live.
	Site SiteConfig `json:"site"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server"`

	// Dev contains development mode configuration.
	Dev DevConfig `json:"dev"`

	// Store selects the page storage backend.
	Store StoreConfig `json:"store"`

	// Build contains static export settings.
	Build BuildConfig `json:"build"`

	// Context is the path of the default render context file.
	Context string `json:"context,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SiteConfig contains page layout settings.
type SiteConfig struct {
	// Pages is the directory containing page files.
	Pages string `json:"pages,omitempty"`

	// Extension is the page file extension, including the dot.
	Extension string `json:"extension,omitempty"`

	// Index is the page rendered for "/".
	Index string `json:"index,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Gzip compresses responses.
	Gzip bool `json:"gzip"`

	// ETag adds content hashes and answers conditional requests.
	ETag bool `json:"etag"`

	// MetricsPath is where Prometheus metrics are served. Empty disables it.
	MetricsPath string `json:"metricsPath,omitempty"`

	// Tracing wraps requests in OpenTelemetry spans.
	Tracing bool `json:"tracing"`
}

// DevConfig contains development mode settings.
type DevConfig struct {
	// Watch enables the page file watcher.
	Watch bool `json:"watch"`

	// Reload injects the live reload script and websocket endpoint.
	Reload bool `json:"reload"`

	// Debounce is how long the watcher waits for changes to settle (e.g. "100ms").
	Debounce string `json:"debounce,omitempty"`

	// Ignore contains file name patterns the watcher skips.
	Ignore []string `json:"ignore,omitempty"`
}

// BuildConfig contains static export settings.
type BuildConfig struct {
	// Output is the directory the rendered site is written to.
	Output string `json:"output,omitempty"`
}

// StoreConfig selects and configures the page store.
type StoreConfig struct {
	// Driver is "dir" or "s3".
	Driver string `json:"driver,omitempty"`

	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for MinIO and similar.
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Site: SiteConfig{
			Pages:     DefaultPagesDir,
			Extension: DefaultExtension,
			Index:     DefaultIndex,
		},
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			Gzip:        true,
			ETag:        true,
			MetricsPath: DefaultMetricsPath,
		},
		Dev: DevConfig{
			Watch:    true,
			Reload:   true,
			Debounce: DefaultDebounce,
			Ignore:   []string{".*", "*~", "*.swp"},
		},
		Store: StoreConfig{
			Driver: DriverDir,
		},
		Build: BuildConfig{
			Output: DefaultOutputDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for scraps.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No scraps.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse scraps.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path. The file is
// replaced atomically so a crash never leaves a half-written config.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.New("E120").Wrap(err)
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
	if c.Site.Pages == "" {
		c.Site.Pages = DefaultPagesDir
	}
	if c.Site.Extension == "" {
		c.Site.Extension = DefaultExtension
	}
	if c.Site.Index == "" {
		c.Site.Index = DefaultIndex
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Dev.Debounce == "" {
		c.Dev.Debounce = DefaultDebounce
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverDir
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultOutputDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E120").
			WithDetail("server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Site.Extension, ".") {
		return errors.New("E120").
			WithDetail("site.extension must start with a dot, got " + strconv.Quote(c.Site.Extension))
	}
	if _, err := time.ParseDuration(c.Dev.Debounce); err != nil {
		return errors.New("E120").
			WithDetail("dev.debounce is not a duration: " + err.Error())
	}
	switch c.Store.Driver {
	case DriverDir:
	case DriverS3:
		if c.Store.Bucket == "" {
			return errors.New("E120").
				WithDetail("store.bucket is required for the s3 driver")
		}
	default:
		return errors.New("E120").
			WithDetail("unknown store.driver " + strconv.Quote(c.Store.Driver)).
			WithSuggestion("Use \"dir\" or \"s3\"")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// DebounceDuration returns the watcher debounce interval, falling back to
// the default when the configured value does not parse.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Dev.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(DefaultDebounce)
	}
	return d
}

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Site.Pages)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

// ContextPath returns the absolute path to the default render context,
// or "" when none is configured.
func (c *Config) ContextPath() string {
	if c.Context == "" {
		return ""
	}
	return c.resolve(c.Context)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the site root.
// Returns the directory containing scraps.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No scraps.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent holding scraps.json.
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
