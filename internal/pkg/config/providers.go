package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dispatch/internal/entities"
)

// Provider настройки одного курьерского провайдера. Секреты в файле задаются
// ссылками на переменные окружения: client_secret: ${UBER_CLIENT_SECRET}.
type Provider struct {
	Name          entities.Provider `yaml:"name"`
	BaseURL       string            `yaml:"base_url"`
	TokenURL      string            `yaml:"token_url"`
	ClientID      string            `yaml:"client_id"`
	ClientSecret  string            `yaml:"client_secret"`
	Scope         string            `yaml:"scope"`
	WebhookSecret string            `yaml:"webhook_secret"`
	Timeout       time.Duration     `yaml:"timeout"`

	BatchSize int           `yaml:"batch_size"`
	Lookahead time.Duration `yaml:"lookahead"`

	// RateLimit исходящие запросы к провайдеру, 0 - без ограничения.
	RateLimit RateLimit `yaml:"rate_limit"`
}

type RateLimit struct {
	Capacity int     `yaml:"capacity"`
	Refill   float64 `yaml:"refill"`
}

type providersFile struct {
	Providers []Provider `yaml:"providers"`
}

func LoadProviders(path string) ([]Provider, error) {
	if path == "" {
		return nil, errors.New("PROVIDERS_CONFIG is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseProviders(raw)
}

func ParseProviders(raw []byte) ([]Provider, error) {
	var file providersFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &file); err != nil {
		return nil, fmt.Errorf("parse providers: %w", err)
	}

	seen := make(map[entities.Provider]struct{}, len(file.Providers))
	for i, p := range file.Providers {
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("provider #%d: %w", i, err)
		}
		if _, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("provider %s configured twice", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return file.Providers, nil
}

func validateProvider(p Provider) error {
	if !p.Name.Valid() {
		return fmt.Errorf("unknown provider %q", p.Name)
	}
	if p.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if p.TokenURL == "" {
		return errors.New("token_url is required")
	}
	if p.ClientID == "" || p.ClientSecret == "" {
		return errors.New("client_id and client_secret are required")
	}
	if p.WebhookSecret == "" {
		return errors.New("webhook_secret is required")
	}
	if p.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", p.BatchSize)
	}
	if p.Lookahead < 0 {
		return errors.New("lookahead must not be negative")
	}
	return nil
}
