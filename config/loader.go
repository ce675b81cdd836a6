package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads, validates, and defaults the application configuration. The
// first readable path wins; with no paths, config.yml in the working
// directory is tried and a missing file falls back to pure defaults.
// Environment variables (optionally from .env) override deploy-time
// values after the file is read.
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = []string{"config.yml"}
	}

	var cfg AppConfig
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, err
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployments override file values without
// touching config.yml. A .env file in the working directory is loaded
// first and ignored when missing.
func applyEnvOverrides(cfg *AppConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("RAILTRACK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RAILTRACK_VIAGGIATRENO_URL"); v != "" {
		cfg.ViaggiaTreno.BaseURL = v
	}
	if v := os.Getenv("RAILTRACK_ITALO_URL"); v != "" {
		cfg.Italo.BaseURL = v
	}
	if v := os.Getenv("RAILTRACK_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("RAILTRACK_STATIONS_CSV"); v != "" {
		cfg.Stations.CSVPath = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16199
	}
	if cfg.Poll.IntervalMS == 0 {
		cfg.Poll.IntervalMS = 60000
	}
	if cfg.Poll.TimeoutMS == 0 {
		cfg.Poll.TimeoutMS = 15000
	}
	if cfg.Poll.MaxBackoffExponent == 0 {
		cfg.Poll.MaxBackoffExponent = 5
	}
	if cfg.NATS.Stream == "" {
		cfg.NATS.Stream = "JOURNEYS"
	}
}
