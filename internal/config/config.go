package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	ModeURL = "url"
	ModeB64 = "b64"
)

type Config struct {
	OpenAIKey      string        `env:"OPENAI_API_KEY" env-description:"image provider credential"`
	OpenAIKeyParam string        `env:"OPENAI_API_KEY_PARAM" env-description:"SSM parameter holding the credential, used when OPENAI_API_KEY is empty"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Models         []string      `env:"IMAGE_MODELS" env-default:"gpt-image-1,dall-e-3" env-description:"backends tried in order"`
	Size           string        `env:"IMAGE_SIZE" env-default:"1024x1024"`
	URLFallback    bool          `env:"IMAGE_URL_FALLBACK" env-default:"true" env-description:"fetch the image when a backend only returns a url"`
	ResponseMode   string        `env:"RESPONSE_MODE" env-default:"url" env-description:"url or b64"`
	StoreTTL       time.Duration `env:"STORE_TTL" env-default:"1h"`
	Port           string        `env:"PORT" env-default:"8080"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL" env-description:"externally reachable base url, defaults to the request host"`
	GinMode        string        `env:"GIN_MODE" env-default:"release"`
	LogLevel       string        `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads an optional .env file and then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		desc, _ := cleanenv.GetDescription(&cfg, nil)
		return nil, fmt.Errorf("config: %w; %s", err, desc)
	}

	cfg.Models = lo.Compact(lo.Map(cfg.Models, func(m string, _ int) string {
		return strings.TrimSpace(m)
	}))
	cfg.PublicBaseURL = strings.TrimSuffix(cfg.PublicBaseURL, "/")

	if cfg.ResponseMode != ModeURL && cfg.ResponseMode != ModeB64 {
		return nil, fmt.Errorf("config: RESPONSE_MODE must be %q or %q, got %q", ModeURL, ModeB64, cfg.ResponseMode)
	}
	if len(cfg.Models) == 0 {
		return nil, errors.New("config: IMAGE_MODELS is empty")
	}
	return &cfg, nil
}
