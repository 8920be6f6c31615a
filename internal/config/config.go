package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/climate-anomaly/internal/domain/anomaly"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		IdleTimeout     time.Duration `yaml:"idleTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

		// pakai X-Forwarded-For hanya di belakang reverse proxy
		TrustProxyHeaders bool `yaml:"trustProxyHeaders"`
	} `yaml:"server"`

	Analysis struct {
		Defaults struct {
			Mu    float64 `yaml:"mu"`
			Sigma float64 `yaml:"sigma"`
			X     float64 `yaml:"x"`
		} `yaml:"defaults"`
	} `yaml:"analysis"`

	Chart struct {
		Width   int `yaml:"width"`
		Height  int `yaml:"height"`
		Samples int `yaml:"samples"`
	} `yaml:"chart"`

	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"maxSizeMB"`
		MaxBackups int    `yaml:"maxBackups"`
		MaxAgeDays int    `yaml:"maxAgeDays"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`

	RateLimit struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Default config; nilai default query sama dengan aplikasi lama (0.5, 0.2, 0.9).
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.ShutdownTimeout = 5 * time.Second

	c.Analysis.Defaults.Mu = 0.5
	c.Analysis.Defaults.Sigma = 0.2
	c.Analysis.Defaults.X = 0.9

	c.Chart.Width = 600
	c.Chart.Height = 400
	c.Chart.Samples = 200

	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Log.MaxSizeMB = 100
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28

	c.RateLimit.Enabled = true
	c.RateLimit.RPS = 20
	c.RateLimit.Burst = 40

	c.CORS.AllowedOrigins = []string{"*"}

	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	return &c
}

// Load baca file config.yaml di atas Default, lalu override dari env.
// File yang tidak ada bukan error: dipakai default.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid PORT %q", v)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port out of range: %d", c.Server.Port)
	}
	defaults := anomaly.Input{
		Mu:    c.Analysis.Defaults.Mu,
		Sigma: c.Analysis.Defaults.Sigma,
		X:     c.Analysis.Defaults.X,
	}
	if err := defaults.Validate(); err != nil {
		return errors.Wrap(err, "analysis.defaults")
	}
	if err := defaults.CheckPlottable(); err != nil {
		return errors.Wrap(err, "analysis.defaults")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.Errorf("chart size must be positive, got %dx%d", c.Chart.Width, c.Chart.Height)
	}
	if c.Chart.Samples < anomaly.MinSamples {
		return errors.Errorf("chart.samples must be >= %d, got %d", anomaly.MinSamples, c.Chart.Samples)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rateLimit.rps and rateLimit.burst must be positive when enabled")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	return nil
}

// Addr returns the listen address for http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
