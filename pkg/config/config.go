package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Server   ServerConfig   `mapstructure:"server"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// StorageConfig selects the ledger backend: "file" (default), "postgres",
// or "memory" for throwaway runs.
type StorageConfig struct {
	Backend  string         `mapstructure:"backend"`
	DataFile string         `mapstructure:"data_file"`
	Database DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LedgerConfig struct {
	DefaultCurrency string `mapstructure:"default_currency"`
	// KeywordsFile overrides the embedded keyword tables when set.
	KeywordsFile string `mapstructure:"keywords_file"`
}

// ServerConfig configures the keep-alive HTTP listener PaaS hosts expect.
// A zero port disables it.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.data_file", "data.json")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.user", "postgres")
	v.SetDefault("storage.database.sslmode", "disable")
	v.SetDefault("ledger.default_currency", "MMK")
	v.SetDefault("server.port", 0)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Storage.Database = dbConfig
		config.Storage.Backend = "postgres"
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if dataFile := v.GetString("DATA_FILE"); dataFile != "" {
		config.Storage.DataFile = dataFile
	}

	if port := v.GetInt("PORT"); port != 0 {
		config.Server.Port = port
	}

	config.Ledger.DefaultCurrency = strings.ToUpper(config.Ledger.DefaultCurrency)

	return &config, nil
}
