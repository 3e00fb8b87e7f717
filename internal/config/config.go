package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Dataset  DatasetConfig  `yaml:"dataset" envconfig:"DATASET"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log" validate:"required"`
}

// DatasetConfig selects the slice of the dataset the visualizer works on.
type DatasetConfig struct {
	City  string `yaml:"city" envconfig:"CITY" default:"krakow" validate:"required"`
	Years []int  `yaml:"years" envconfig:"YEARS" default:"2023,2024" validate:"min=1,dive,gte=1900,lte=2100"`
}

// DatabaseConfig configures the optional Postgres sink for cleaned listings.
// The sink is skipped entirely unless Enabled is set.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	Host     string `yaml:"host" envconfig:"HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"PORT" default:"5432"`
	User     string `yaml:"user" envconfig:"USER" default:"apt"`
	Password string `yaml:"password" envconfig:"PASSWORD" default:""`
	Name     string `yaml:"name" envconfig:"NAME" default:"apartments"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"SSL_MODE" default:"disable"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode
}

// Load loads configuration from a .env file, environment variables and an
// optional config.yaml, in that order of increasing precedence for the env
// sources; file values only fill fields the environment left at zero.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment")
	}

	var cfg Config
	if err := envconfig.Process("APT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Dataset.City == "" {
		envConfig.Dataset.City = fileConfig.Dataset.City
	}
	if len(envConfig.Dataset.Years) == 0 {
		envConfig.Dataset.Years = fileConfig.Dataset.Years
	}
	if !envConfig.Database.Enabled {
		envConfig.Database.Enabled = fileConfig.Database.Enabled
	}
	if envConfig.Database.Host == "" {
		envConfig.Database.Host = fileConfig.Database.Host
	}
	if envConfig.Database.Port == "" {
		envConfig.Database.Port = fileConfig.Database.Port
	}
	if envConfig.Database.User == "" {
		envConfig.Database.User = fileConfig.Database.User
	}
	if envConfig.Database.Password == "" {
		envConfig.Database.Password = fileConfig.Database.Password
	}
	if envConfig.Database.Name == "" {
		envConfig.Database.Name = fileConfig.Database.Name
	}
	if envConfig.Database.SSLMode == "" {
		envConfig.Database.SSLMode = fileConfig.Database.SSLMode
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/pipeline.log"
	}
	if c.Dataset.City == "" {
		c.Dataset.City = DefaultCity
	}
	if len(c.Dataset.Years) == 0 {
		c.Dataset.Years = DefaultYears()
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

// getConfigFilePath returns the path to the config file. Candidates are
// resolved against the executable directory, never the working directory,
// so the stage binaries load the same config wherever they are invoked
// from.
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	exeDir := filepath.Dir(exe)

	locations := []string{
		filepath.Join(exeDir, "config.yaml"),
		filepath.Join(exeDir, "configs", "config.yaml"),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/pipeline.log",
		},
		Dataset: DatasetConfig{
			City:  DefaultCity,
			Years: DefaultYears(),
		},
		Database: DatabaseConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    "5432",
			User:    "apt",
			Name:    "apartments",
			SSLMode: "disable",
		},
	}
}
