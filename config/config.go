package config

import (
	"flag"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddress  = ":8080"
	defaultDatabaseDSN    = ""
	defaultLogLevel       = "debug"
	defaultGatewayBaseURL = "https://pay.pesapal.com/v3"
)

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	LogLevel       string
	TokenKey       string
	GatewayBaseURL string
	GatewayKey     string
	GatewaySecret  string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// .env is optional
		_ = godotenv.Load()

		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.GatewayBaseURL, "g", defaultGatewayBaseURL, "payment gateway base URL")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if tokenKeyEnv := os.Getenv("TOKEN_KEY"); tokenKeyEnv != "" {
			cfg.TokenKey = tokenKeyEnv
		}
		if gatewayURLEnv := os.Getenv("PAYMENT_GATEWAY_URL"); gatewayURLEnv != "" {
			cfg.GatewayBaseURL = gatewayURLEnv
		}
		cfg.GatewayKey = os.Getenv("PAYMENT_CONSUMER_KEY")
		cfg.GatewaySecret = os.Getenv("PAYMENT_CONSUMER_SECRET")

		singleton = &cfg
	})

	return singleton, nil
}
