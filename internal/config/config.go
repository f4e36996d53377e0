package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds everything the server needs from the environment. Values are
// read from real environment variables; main loads .env first so local
// development works without exporting anything.
type Config struct {
	Addr        string `envconfig:"ADDR" default:":4000"`
	Environment string `envconfig:"APP_ENV" default:"development"`

	MongoURI string `envconfig:"MONGO_URI" required:"true"`
	Database string `envconfig:"MONGO_DATABASE" default:"campuskart"`

	SessionLifetime time.Duration `envconfig:"SESSION_LIFETIME" default:"120h"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `envconfig:"GOOGLE_CALLBACK_URL"`

	RazorpayKeyID     string `envconfig:"RAZORPAY_API_KEY"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_API_SECRET"`

	FrontendURL string `envconfig:"FRONTEND_URL" default:"/"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "loading config")
	}
	return cfg, nil
}

// Production reports whether cookie flags should be hardened.
func (c Config) Production() bool {
	return c.Environment != "development"
}
