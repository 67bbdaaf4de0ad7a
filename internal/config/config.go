package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Stream      StreamConfig      `yaml:"stream"`
	Provider    ProviderConfig    `yaml:"provider"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Lepton      LeptonConfig      `yaml:"lepton"`
	Stats       StatsConfig       `yaml:"stats"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type StreamConfig struct {
	URL string `yaml:"url"`
}

type ProviderConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	BatchSize      int    `yaml:"batch_size"`
}

type CalibrationConfig struct {
	Tagger     string `yaml:"tagger"`
	Channel    string `yaml:"channel"`
	File       string `yaml:"file"`
	HeavyShift string `yaml:"heavy_shift"`
	LightShift string `yaml:"light_shift"`
}

type PeriodLumi struct {
	Name string  `yaml:"name"`
	Lumi float64 `yaml:"lumi"`
}

type LeptonConfig struct {
	Shift   string       `yaml:"shift"`
	Periods []PeriodLumi `yaml:"periods"`
}

type StatsConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Provider.PollIntervalMs) * time.Millisecond
}

func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Stats.IntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Stream: StreamConfig{
			URL: "nats://localhost:4222",
		},
		Provider: ProviderConfig{
			PollIntervalMs: 5000,
			BatchSize:      100,
		},
		Calibration: CalibrationConfig{
			Tagger:     "csvt",
			Channel:    "muon",
			HeavyShift: "default",
			LightShift: "default",
		},
		Lepton: LeptonConfig{
			Shift: "default",
			Periods: []PeriodLumi{
				{Name: "MuonRunA", Lumi: 1.5},
				{Name: "MuonRunB", Lumi: 2.6},
				{Name: "MuonRunC", Lumi: 7.8},
			},
		},
		Stats: StatsConfig{
			IntervalMs: 30000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("JETWEIGHT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("JETWEIGHT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("JETWEIGHT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("JETWEIGHT_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("JETWEIGHT_STREAM_URL"); v != "" {
		cfg.Stream.URL = v
	}
	if v := os.Getenv("JETWEIGHT_PROVIDER_URL"); v != "" {
		cfg.Provider.URL = v
	}
	if v := os.Getenv("JETWEIGHT_PROVIDER_TOKEN"); v != "" {
		cfg.Provider.Token = v
	}
	if v := os.Getenv("JETWEIGHT_TAGGER"); v != "" {
		cfg.Calibration.Tagger = v
	}
	if v := os.Getenv("JETWEIGHT_CHANNEL"); v != "" {
		cfg.Calibration.Channel = v
	}
	if v := os.Getenv("JETWEIGHT_CALIBRATION_FILE"); v != "" {
		cfg.Calibration.File = v
	}
	if v := os.Getenv("JETWEIGHT_HEAVY_SHIFT"); v != "" {
		cfg.Calibration.HeavyShift = v
	}
	if v := os.Getenv("JETWEIGHT_LIGHT_SHIFT"); v != "" {
		cfg.Calibration.LightShift = v
	}
	if v := os.Getenv("JETWEIGHT_STATS_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Stats.IntervalMs = n
		}
	}
	if v := os.Getenv("JETWEIGHT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
