// Package config provides functionality for managing configuration options
// for the application using command-line flags, a local .env file, and
// environment variables. The resulting Options struct is built once at
// process start and passed by reference into the components that need it.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DevTokenSecret is the fallback signing secret used when TOKEN_SECRET is
// unset. Production deployments must override it; running on the default is
// a latent security defect, not a crash.
const DevTokenSecret = "mysecretsshhhhh"

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// MongoURI holds the document store connection string.
	MongoURI string

	// MongoDatabase is the database name used for all collections.
	MongoDatabase string

	// TokenSecret signs and verifies bearer tokens.
	TokenSecret string

	// PaymentSecretKey authenticates against the payment provider.
	// When empty, the checkout route is not mounted.
	PaymentSecretKey string

	// PaymentAPIURL is the payment provider endpoint for checkout sessions.
	PaymentAPIURL string

	// AllowedOrigin is the client origin permitted by CORS.
	AllowedOrigin string

	// Env is the deployment mode, "development" or "production".
	// Production serves static client assets from StaticDir.
	Env string

	// StaticDir is the directory of built client assets served in production.
	StaticDir string

	// Config is the path to an optional JSON config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", ":4000", "run on ip:port server")
	flag.StringVar(&options.MongoURI, "d", "mongodb://127.0.0.1:27017", "document store address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, .env file, and environment variables
// to set configuration values. Precedence, lowest to highest: flag defaults,
// config file, environment. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// A local .env file populates the environment for development setups.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	options.MongoDatabase = firstNonEmpty(options.MongoDatabase, "personalFinanceDB")
	options.TokenSecret = firstNonEmpty(options.TokenSecret, DevTokenSecret)
	options.PaymentAPIURL = firstNonEmpty(options.PaymentAPIURL, "https://api.stripe.com/v1/checkout/sessions")
	options.Env = firstNonEmpty(options.Env, "development")
	options.StaticDir = firstNonEmpty(options.StaticDir, "client/build")

	// Environment variables override everything else.
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		options.Addr = addr
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		options.MongoURI = uri
	}
	if db := os.Getenv("MONGODB_DATABASE"); db != "" {
		options.MongoDatabase = db
	}
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		options.TokenSecret = secret
	}
	if key := os.Getenv("PAYMENT_SECRET_KEY"); key != "" {
		options.PaymentSecretKey = key
	}
	if url := os.Getenv("PAYMENT_API_URL"); url != "" {
		options.PaymentAPIURL = url
	}
	if origin := os.Getenv("ALLOWED_ORIGIN"); origin != "" {
		options.AllowedOrigin = origin
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		options.Env = env
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		options.StaticDir = dir
	}

	return options
}

// Production reports whether the service runs in production mode.
func (o *Options) Production() bool {
	return o.Env == "production"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
