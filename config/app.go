package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool
	// Transaction budgets for the van inventory engine. TxMaxWait bounds how
	// long a request may wait to acquire a transaction slot, TxTimeout bounds
	// execution of the transaction itself.
	TxMaxWait time.Duration
	TxTimeout time.Duration
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName:   os.Getenv("APP_NAME"),
			Port:      os.Getenv("PORT"),
			Env:       os.Getenv("APP_ENV"),
			Debug:     os.Getenv("DEBUG") == "true",
			TxMaxWait: envDuration("TX_MAX_WAIT_SECONDS", 15*time.Second),
			TxTimeout: envDuration("TX_TIMEOUT_SECONDS", 45*time.Second),
		}
	})
}

// Get returns the loaded config, loading defaults on first use so that
// CLI commands and tests don't have to call LoadAppConfig themselves.
func Get() *Config {
	LoadAppConfig()
	return AppConfig
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}
