package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	billing "aidat-mock/internal/billing/domain"
)

// Config holds the process configuration.
type Config struct {
	HTTPAddr       string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
	PaymentGateway string
	// PaymentDomain is appended to the gateway host of redirect URLs; empty keeps the bare gateway.
	PaymentDomain string
	SiteConfig    string
	Site          billing.Site
}

// Load reads an optional .env file, then the environment, then the optional YAML site file.
func Load() (Config, error) {
	dotenv := getenvDefault("DOTENV_PATH", ".env")
	if err := gotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load %s: %w", dotenv, err)
	}

	cfg := Config{
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8000"),
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
		LogFormat:      getenvDefault("LOG_FORMAT", "text"),
		MetricsEnabled: getenvBoolDefault("METRICS_ENABLED", true),
		PaymentGateway: getenvDefault("PAYMENT_GATEWAY", "iyzico"),
		PaymentDomain:  lookupenvDefault("PAYMENT_DOMAIN", "example.com"),
		SiteConfig:     os.Getenv("SITE_CONFIG"),
		Site:           billing.DemoSite(),
	}

	if cfg.SiteConfig != "" {
		site, err := LoadSite(cfg.SiteConfig)
		if err != nil {
			return cfg, err
		}
		cfg.Site = site
	}
	return cfg, nil
}

// LoadSite reads a site and its unit registry from a YAML file.
func LoadSite(path string) (billing.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return billing.Site{}, fmt.Errorf("config: read site file: %w", err)
	}
	var site billing.Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return billing.Site{}, fmt.Errorf("config: parse site file: %w", err)
	}
	if err := validateSite(site); err != nil {
		return billing.Site{}, err
	}
	return site, nil
}

func validateSite(site billing.Site) error {
	if site.ID == "" {
		return errors.New("config: site id required")
	}
	if len(site.Units) == 0 {
		return errors.New("config: site needs at least one unit")
	}
	seen := make(map[string]struct{}, len(site.Units))
	for _, unit := range site.Units {
		if unit.ID == "" {
			return errors.New("config: unit id required")
		}
		if _, ok := seen[unit.ID]; ok {
			return fmt.Errorf("config: duplicate unit id %q", unit.ID)
		}
		seen[unit.ID] = struct{}{}
		if unit.LandShare < 0 || unit.SquareMeter < 0 {
			return fmt.Errorf("config: unit %q has negative weight", unit.ID)
		}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// lookupenvDefault keeps an explicitly empty value.
func lookupenvDefault(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return value
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
