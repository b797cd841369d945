package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the Main Street server and CLI.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// DatabaseURL is empty when no store is configured; the API then serves
	// the JSON snapshot and answers 503 on store-backed routes.
	DatabaseURL       string
	ShopsQueryTimeout time.Duration

	JWTSecret    string
	CookieSecure bool

	GoogleMapsAPIKey   string
	CORSAllowedOrigins string
	StaticDir          string

	ShopsCSVPath  string
	ShopsJSONPath string

	RabbitMQURL string

	RedisAddr      string
	RedisPassword  string
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DataDir is the directory holding the reconciler's source files.
func (c *Config) DataDir() string {
	return filepath.Dir(c.ShopsJSONPath)
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SHOPS_QUERY_TIMEOUT", "10s")
	v.SetDefault("JWT_SECRET", "mainstreet-dev-secret-change-in-production")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("SHOPS_CSV", filepath.Join("data", "boutique-data.csv"))
	v.SetDefault("SHOPS_JSON", filepath.Join("data", "shops.json"))
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("AUTH_RATE_WINDOW", "1m")
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	loadDotenv()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	port := v.GetString("PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &Config{
		Port:               port,
		Environment:        strings.ToLower(v.GetString("ENVIRONMENT")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		ShopsQueryTimeout:  v.GetDuration("SHOPS_QUERY_TIMEOUT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		GoogleMapsAPIKey:   strings.TrimSpace(v.GetString("GOOGLE_MAPS_API_KEY")),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		StaticDir:          v.GetString("STATIC_DIR"),
		ShopsCSVPath:       v.GetString("SHOPS_CSV"),
		ShopsJSONPath:      v.GetString("SHOPS_JSON"),
		RabbitMQURL:        strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		RedisAddr:          strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		AuthRateLimit:      v.GetInt("AUTH_RATE_LIMIT"),
		AuthRateWindow:     v.GetDuration("AUTH_RATE_WINDOW"),
	}
}

func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}
