package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/skytag/internal/core/geotag"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Geotag    GeotagConfig    `mapstructure:"geotag"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeotagConfig describes the reference image and projection constants.
type GeotagConfig struct {
	ImageWidth      float64 `mapstructure:"image_width"`
	ImageHeight     float64 `mapstructure:"image_height"`
	MetersPerDegree float64 `mapstructure:"meters_per_degree"`
	MaxOffNadir     float64 `mapstructure:"max_off_nadir"` // degrees
	Lens            string  `mapstructure:"lens"`
	CacheTTL        int     `mapstructure:"cache_ttl"` // seconds
}

// Engine converts the section into a projection engine config.
func (g GeotagConfig) Engine() geotag.Config {
	return geotag.Config{
		ImageWidth:      g.ImageWidth,
		ImageHeight:     g.ImageHeight,
		MetersPerDegree: g.MetersPerDegree,
		MaxOffNadir:     g.MaxOffNadir,
		Lens:            geotag.LensModel(g.Lens),
	}
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("geotag.image_width", 5456.0)
	v.SetDefault("geotag.image_height", 3632.0)
	v.SetDefault("geotag.meters_per_degree", 111320.0)
	v.SetDefault("geotag.max_off_nadir", 85.0)
	v.SetDefault("geotag.lens", "linear")
	v.SetDefault("geotag.cache_ttl", 3600)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "geotag-queue")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SKYTAG_GEOTAG_IMAGE_WIDTH → geotag.image_width
	v.SetEnvPrefix("SKYTAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Geotag.ImageWidth <= 0 || c.Geotag.ImageHeight <= 0 {
		errs = append(errs, fmt.Sprintf("geotag image resolution must be positive, got %vx%v",
			c.Geotag.ImageWidth, c.Geotag.ImageHeight))
	}
	if c.Geotag.MetersPerDegree <= 0 {
		errs = append(errs, "geotag.meters_per_degree must be positive")
	}
	if c.Geotag.MaxOffNadir <= 0 || c.Geotag.MaxOffNadir >= 90 {
		errs = append(errs, fmt.Sprintf("geotag.max_off_nadir must be within (0, 90), got %v", c.Geotag.MaxOffNadir))
	}
	if l := geotag.LensModel(c.Geotag.Lens); l != geotag.LensLinearAngle && l != geotag.LensPinhole {
		errs = append(errs, fmt.Sprintf("geotag.lens must be linear or pinhole, got %q", c.Geotag.Lens))
	}
	if c.Geotag.CacheTTL < 0 {
		errs = append(errs, "geotag.cache_ttl must not be negative")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.HostPort == "" {
		errs = append(errs, "temporal.host_port is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
