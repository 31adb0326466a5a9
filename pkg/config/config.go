// Package config handles tableview configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Producer ProducerConfig `yaml:"producer"`
	Renderer RendererConfig `yaml:"renderer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: "localhost")
	Host string `yaml:"host"`

	// Port is the port to listen on (default: 8088)
	Port int `yaml:"port"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// CORSOrigins is a list of allowed origins for CORS requests.
	CORSOrigins []string `yaml:"cors_origins"`

	// EnableLogging enables request logging middleware.
	EnableLogging bool `yaml:"enable_logging"`

	// AssetsDir is the directory of static viewer assets served at /.
	// Empty disables static serving.
	AssetsDir string `yaml:"assets_dir"`
}

// ProducerConfig holds document generation settings.
type ProducerConfig struct {
	// RecordCount is the number of synthetic records per document.
	RecordCount int `yaml:"record_count"`

	// FontDir and FontFile locate the CJK TrueType font to embed.
	// If the font cannot be read the producer falls back to Helvetica.
	FontDir  string `yaml:"font_dir"`
	FontFile string `yaml:"font_file"`

	// FontFamily is the family name the font is registered under.
	FontFamily string `yaml:"font_family"`

	// DefaultLanguage is the language used on startup ("en", "zh-CN", "ja").
	DefaultLanguage string `yaml:"default_language"`

	// OutputName is the filename used for downloads.
	OutputName string `yaml:"output_name"`
}

// RendererConfig holds preview rasterization settings.
type RendererConfig struct {
	// DPI is the base render resolution at zoom 1.0.
	DPI float64 `yaml:"dpi"`

	// CMapBaseURL is the remote base URL for Adobe CMap files used for
	// CJK glyph support.
	CMapBaseURL string `yaml:"cmap_base_url"`

	// CMapDir is the local cache directory for downloaded CMaps.
	CMapDir string `yaml:"cmap_dir"`

	// DownloadCMaps enables fetching missing CMaps at startup.
	DownloadCMaps bool `yaml:"download_cmaps"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "localhost",
			Port:          8088,
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  15 * time.Second,
			IdleTimeout:   60 * time.Second,
			CORSOrigins:   []string{"http://localhost:5173"}, // Vite dev server
			EnableLogging: true,
			AssetsDir:     "web",
		},
		Producer: ProducerConfig{
			RecordCount:     40,
			FontDir:         "fonts",
			FontFile:        "NotoSansSC-Regular.ttf",
			FontFamily:      "NotoSansSC",
			DefaultLanguage: "en",
			OutputName:      "employee-report.pdf",
		},
		Renderer: RendererConfig{
			DPI:           150,
			CMapBaseURL:   "https://gitlab.freedesktop.org/poppler/poppler-data/-/raw/master",
			CMapDir:       "data/cmaps",
			DownloadCMaps: true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	if _, err := os.Stat("config/config.yaml"); err == nil {
		return "config/config.yaml"
	}
	return "config.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	cfg := Default()
	return cfg.Save(path)
}
