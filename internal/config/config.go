package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	Server    ServerConfig
	Store     StoreConfig
	AppCheck  AppCheckConfig
	Places    PlacesConfig
	Functions FunctionsConfig
	Contacts  ContactsConfig
	Redis     RedisConfig
	WhatsApp  WhatsAppConfig
	Wedding   WeddingConfig
}

type ServerConfig struct {
	Port   int    `envconfig:"PORT" default:"8080"`
	Region string `envconfig:"REGION" default:"us-central1"`
}

type StoreConfig struct {
	Path string `envconfig:"RSVP_DB_PATH" default:"data/rsvps.db"`
}

// AppCheckConfig controls caller validation of the backend functions. Disable
// is intended for local development only.
type AppCheckConfig struct {
	Disable bool     `envconfig:"DISABLE_APP_CHECK" default:"false"`
	Tokens  []string `envconfig:"APP_CHECK_TOKENS"`
}

type PlacesConfig struct {
	APIKey     string        `envconfig:"PLACES_API_KEY"`
	BaseURL    string        `envconfig:"PLACES_BASE_URL" default:"https://maps.googleapis.com/maps/api/place/autocomplete/json"`
	Components string        `envconfig:"PLACES_COMPONENTS"`
	Debounce   time.Duration `envconfig:"PLACES_DEBOUNCE" default:"500ms"`
	Timeout    time.Duration `envconfig:"PLACES_TIMEOUT" default:"10s"`
}

// FunctionsConfig tells clients where the backend functions live.
type FunctionsConfig struct {
	BaseURL       string `envconfig:"FUNCTIONS_BASE_URL" default:"http://localhost:8080"`
	AppCheckToken string `envconfig:"FUNCTIONS_APP_CHECK_TOKEN"`
}

// ContactsConfig names the people guests are told to text when lookups keep
// failing.
type ContactsConfig struct {
	GroomName        string `envconfig:"GROOM_NAME" default:"Groom"`
	GroomPhoneNumber string `envconfig:"GROOM_PHONE_NUMBER"`
	BrideName        string `envconfig:"BRIDE_NAME" default:"Bride"`
	BridePhoneNumber string `envconfig:"BRIDE_PHONE_NUMBER"`
}

// RedisConfig enables the fetch cache when URL is set.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	TTL          time.Duration `envconfig:"REDIS_TTL" default:"5m"`
	ReadTimeout  int           `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int           `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	DialTimeout  int           `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
}

type WhatsAppConfig struct {
	Enabled       bool     `envconfig:"WHATSAPP_ENABLED" default:"false"`
	DataDir       string   `envconfig:"WHATSAPP_DATA_DIR" default:"data"`
	NotifyNumbers []string `envconfig:"WHATSAPP_NOTIFY_NUMBERS"`
	CountryCode   string   `envconfig:"WHATSAPP_COUNTRY_CODE" default:"1"`
}

type WeddingConfig struct {
	Date     string `envconfig:"WEDDING_DATE" default:"Saturday, January 1, 2028"`
	Location string `envconfig:"WEDDING_LOCATION" default:"Venue TBD"`
}

// Env returns the parsed deployment environment.
func (c *Config) Env() Environment {
	return ParseEnvironment(c.Environment)
}

// Load reads an optional .env file and binds the environment into a Config
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
