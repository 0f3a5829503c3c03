package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
)

// config structure
type Config struct {
	API     APIConfig     `mapstructure:"API"`
	Github  GithubConfig  `mapstructure:"GITHUB"`
	Cache   CacheConfig   `mapstructure:"CACHE"`
	OGImage OGImageConfig `mapstructure:"OGIMAGE"`
	CORS    CORSConfig    `mapstructure:"CORS"`
	Tasks   TasksConfig   `mapstructure:"TASKS"`
	Logs    LogsConfig    `mapstructure:"LOGS"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type GithubConfig struct {
	Username      string `mapstructure:"Username"` // target account served by the portfolio
	Token         string `mapstructure:"Token"`
	PageSize      int    `mapstructure:"PageSize"`
	RetryAttempts uint   `mapstructure:"RetryAttempts"` // total attempts per upstream request
	RetryDelayMs  int    `mapstructure:"RetryDelayMs"`  // linear backoff base delay
}

type CacheConfig struct {
	TTLSeconds int `mapstructure:"TTLSeconds"`
	MaxEntries int `mapstructure:"MaxEntries"`
}

type OGImageConfig struct {
	TimeoutSeconds int `mapstructure:"TimeoutSeconds"`
	MaxBodyBytes   int `mapstructure:"MaxBodyBytes"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"AllowedOrigins"`
	OriginPattern  string   `mapstructure:"OriginPattern"` // preview deployment subdomains
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJson bool   `mapstructure:"OutputLogsAsJson"`
}

// Load
func Load() (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(dir + "/config/config.toml"); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return nil, err
		} else {
			configFilePath = "config/config.toml"
		}
	}

	// load default and config file content
	cfg := GetDefault()
	_, err = snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			Username:      "mk-knight23",
			Token:         "",
			PageSize:      100,
			RetryAttempts: 4,
			RetryDelayMs:  1000,
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
			MaxEntries: 1024,
		},
		OGImage: OGImageConfig{
			TimeoutSeconds: 5,
			MaxBodyBytes:   50000,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"https://eyvfhqqwunmbcaynqocc.supabase.co",
				"http://localhost:8080",
				"http://localhost:5173",
				"http://localhost:3000",
			},
			OriginPattern: `^https://[a-z0-9-]+\.lovableproject\.com$`,
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJson: false,
		},
	}
}
