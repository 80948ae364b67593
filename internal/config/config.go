package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"Mower/internal/scene"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedConfig is returned for config files with an unknown extension.
var ErrUnsupportedConfig = errors.New("unsupported config format")

type WindowConfig struct {
	Title        string     `json:"title" toml:"title" yaml:"title"`
	Width        int        `json:"width" toml:"width" yaml:"width"`
	Height       int        `json:"height" toml:"height" yaml:"height"`
	ClearColor   [3]float32 `json:"clear_color" toml:"clear_color" yaml:"clear_color"`
	DarkTitleBar bool       `json:"dark_title_bar" toml:"dark_title_bar" yaml:"dark_title_bar"`
}

type AssetConfig struct {
	Root     string `json:"root" toml:"root" yaml:"root"`
	CacheDir string `json:"cache_dir" toml:"cache_dir" yaml:"cache_dir"`
	Web      bool   `json:"web" toml:"web" yaml:"web"`
	Refresh  bool   `json:"refresh" toml:"refresh" yaml:"refresh"`
	Watch    bool   `json:"watch" toml:"watch" yaml:"watch"`
}

type EnvironmentConfig struct {
	DiffuseMap  string  `json:"diffuse_map" toml:"diffuse_map" yaml:"diffuse_map"`
	SpecularMap string  `json:"specular_map" toml:"specular_map" yaml:"specular_map"`
	Intensity   float32 `json:"intensity" toml:"intensity" yaml:"intensity"`
	SkyboxDir   string  `json:"skybox_dir" toml:"skybox_dir" yaml:"skybox_dir"`
}

type GroundConfig struct {
	Size  float32    `json:"size" toml:"size" yaml:"size"`
	Color [3]float32 `json:"color" toml:"color" yaml:"color"`
}

type DiagnosticsConfig struct {
	Overlay     bool     `json:"overlay" toml:"overlay" yaml:"overlay"`
	Log         bool     `json:"log" toml:"log" yaml:"log"`
	LogInterval Duration `json:"log_interval" toml:"log_interval" yaml:"log_interval"`
}

// Config is everything a viewer variant can tune.
type Config struct {
	Window        WindowConfig      `json:"window" toml:"window" yaml:"window"`
	Assets        AssetConfig       `json:"assets" toml:"assets" yaml:"assets"`
	Model         string            `json:"model" toml:"model" yaml:"model"`
	Scripts       []string          `json:"scripts,omitempty" toml:"scripts,omitempty" yaml:"scripts,omitempty"`
	Environment   EnvironmentConfig `json:"environment" toml:"environment" yaml:"environment"`
	Ground        GroundConfig      `json:"ground" toml:"ground" yaml:"ground"`
	ShadowMapSize int               `json:"shadow_map_size" toml:"shadow_map_size" yaml:"shadow_map_size"`
	Diagnostics   DiagnosticsConfig `json:"diagnostics" toml:"diagnostics" yaml:"diagnostics"`
	LogLevel      string            `json:"log_level" toml:"log_level" yaml:"log_level"`
}

// Default returns the stock "Mower" setup.
func Default() Config {
	env := scene.DefaultEnvironmentMap()
	return Config{
		Window: WindowConfig{
			Title:      "Mower",
			Width:      1280,
			Height:     720,
			ClearColor: [3]float32{0.1, 0.1, 0.1},
		},
		Assets: AssetConfig{
			Root:     "assets",
			CacheDir: filepath.Join(os.TempDir(), "mower-assets"),
			Web:      true,
		},
		Model: scene.DefaultModel,
		Environment: EnvironmentConfig{
			DiffuseMap:  env.DiffuseMap,
			SpecularMap: env.SpecularMap,
			Intensity:   env.Intensity,
		},
		Ground: GroundConfig{
			Size:  5.0,
			Color: [3]float32{0.3, 0.5, 0.3},
		},
		ShadowMapSize: 4096,
		Diagnostics: DiagnosticsConfig{
			Overlay:     true,
			LogInterval: Duration(time.Second),
		},
		LogLevel: "info",
	}
}

// Load reads path on top of Default. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	err := LoadInto(&cfg, path)
	return cfg, err
}

// LoadInto reads path on top of the values already in cfg.
func LoadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := Decode(cfg, filepath.Ext(path), data); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// Decode unmarshals data into cfg according to the file extension.
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err := dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedConfig, ext)
}

// Save writes cfg in the format implied by the extension.
func Save(cfg Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedConfig, filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that would otherwise fail deep inside the
// viewer.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.ShadowMapSize <= 0 || c.ShadowMapSize&(c.ShadowMapSize-1) != 0 {
		errs = append(errs, fmt.Errorf("shadow map size must be a power of two, got %d", c.ShadowMapSize))
	}
	if c.Environment.Intensity < 0 {
		errs = append(errs, fmt.Errorf("environment intensity must not be negative, got %v", c.Environment.Intensity))
	}
	if c.Ground.Size <= 0 {
		errs = append(errs, fmt.Errorf("ground size must be positive, got %v", c.Ground.Size))
	}
	if c.Diagnostics.Log && c.Diagnostics.LogInterval <= 0 {
		errs = append(errs, fmt.Errorf("diagnostics log interval must be positive, got %v", c.Diagnostics.LogInterval))
	}
	if _, err := scene.ParseScenePath(c.Model); err != nil {
		errs = append(errs, fmt.Errorf("model: %w", err))
	}
	if scene.IsRemote(c.Model) && !c.Assets.Web {
		errs = append(errs, fmt.Errorf("model %q is remote but web assets are disabled", c.Model))
	}
	return errors.Join(errs...)
}

// ScenePath returns the parsed model path. Call Validate first.
func (c Config) ScenePath() scene.ScenePath {
	p, _ := scene.ParseScenePath(c.Model)
	return p
}

// SetupOptions maps the config onto scene.Setup.
func (c Config) SetupOptions() scene.SetupOptions {
	return scene.SetupOptions{
		Model: c.ScenePath(),
		Environment: scene.EnvironmentMap{
			DiffuseMap:  c.Environment.DiffuseMap,
			SpecularMap: c.Environment.SpecularMap,
			Intensity:   c.Environment.Intensity,
			SkyboxDir:   c.Environment.SkyboxDir,
		},
		GroundSize:  c.Ground.Size,
		GroundColor: c.Ground.Color,
		PerfUI:      c.Diagnostics.Overlay,

		ModelScripts: c.Scripts,
	}
}
