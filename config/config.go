package config

import (
	"log"
	"os"
	"sync"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server reads from the environment.
type Config struct {
	Port        int    `env:"PORT" envDefault:"3001"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	DatabaseURL string `env:"DB_CONNECTION_STRING,required"`
	RedisURL    string `env:"REDIS_URL" envDefault:"localhost:6379"`

	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`
	EmailTokenSecret   string `env:"EMAIL_TOKEN_SECRET,required"`

	TypesenseHost     string `env:"TYPESENSE_HOST" envDefault:"localhost"`
	TypesensePort     int    `env:"TYPESENSE_PORT" envDefault:"8108"`
	TypesenseProtocol string `env:"TYPESENSE_PROTOCOL" envDefault:"http"`
	TypesenseAPIKey   string `env:"TYPESENSE_API_KEY" envDefault:""`

	SendgridAPIKey string `env:"SENDGRID_API_KEY" envDefault:""`
	EmailFrom      string `env:"EMAIL_FROM" envDefault:"no-reply@rentora.app"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:""`
}

var (
	cfg  Config
	once sync.Once
)

// Get loads the configuration exactly once. A missing .env file is fine in
// production; required variables still have to come from somewhere.
func Get() *Config {
	once.Do(func() {
		if os.Getenv("ENVIRONMENT") != "production" {
			if err := godotenv.Load(); err != nil {
				log.Println("config: no .env file loaded:", err)
			}
		}
		if err := env.Parse(&cfg); err != nil {
			log.Panic("config: ", err)
		}
	})
	return &cfg
}

// Production reports whether the server runs with production error masking.
func (c *Config) Production() bool { return c.Environment == "production" }
