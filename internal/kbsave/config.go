package kbsave

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"
)

const (
	defaultAddress   = "localhost:7089"
	defaultCachePath = "./cache.db"
	defaultSlotLimit = 100
)

// Config is read from an ini file; environment variables override it.
type Config struct {
	Address string

	SavesRoot string
	SlotLimit int

	CachePath string

	Workers          int
	AutoscanInterval time.Duration

	LogLevel string
	LogJSON  bool

	Version   string
	BuildTime string
}

func DefaultConfig() Config {
	return Config{
		Address:   defaultAddress,
		SlotLimit: defaultSlotLimit,
		CachePath: defaultCachePath,
		Workers:   1,
		LogLevel:  "info",
	}
}

// EnvOr returns the environment variable key, or fallback when it is unset
// or empty.
func EnvOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	file, err := ini.LooseLoad(path)
	if err != nil {
		return config, fmt.Errorf("load config %v: %w", path, err)
	}

	server := file.Section("server")
	config.Address = server.Key("address").MustString(config.Address)

	saves := file.Section("saves")
	config.SavesRoot = saves.Key("root").MustString(config.SavesRoot)
	config.SlotLimit = saves.Key("limit").MustInt(config.SlotLimit)

	cache := file.Section("cache")
	config.CachePath = cache.Key("path").MustString(config.CachePath)

	scanner := file.Section("scanner")
	config.Workers = scanner.Key("workers").MustInt(config.Workers)
	config.AutoscanInterval = scanner.Key("autoscan_interval").MustDuration(config.AutoscanInterval)

	logging := file.Section("log")
	config.LogLevel = logging.Key("level").MustString(config.LogLevel)
	config.LogJSON = logging.Key("json").MustBool(config.LogJSON)

	config.Address = EnvOr("ADDRESS", config.Address)
	config.SavesRoot = EnvOr("KBSAVE_SAVES", config.SavesRoot)
	config.CachePath = EnvOr("KBSAVE_CACHE", config.CachePath)

	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.AutoscanInterval < 0 {
		return config, fmt.Errorf("autoscan_interval must not be negative, got %v", config.AutoscanInterval)
	}

	return config, nil
}
