package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"stock-trend/src/daterange"
	"stock-trend/src/helpers"
	"stock-trend/src/models"
	"stock-trend/src/utils"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig loads the YAML file at configPath, fills defaults, applies
// environment overrides and validates the result.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("failed to read config file '%s'", configPath), err)
	}
	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse builds a Config from YAML bytes
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, helpers.NewConfigurationError("failed to parse config from YAML", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.ApplyDefaults()
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, helpers.NewConfigurationError("config validation failed", err)
	}
	return config, nil
}

// -----------------------------------------------------------------------------

// Default is the configuration used when no file is given
func Default() *Config {
	config := &Config{MConfig: &models.MConfig{}}
	config.ApplyDefaults()
	return config
}

// -----------------------------------------------------------------------------

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "stock-trend"
	}
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8050
	}
	if c.GrpcHost == "" {
		c.GrpcHost = "127.0.0.1"
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = 50051
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Timezone == "" {
		c.Timezone = utils.DefaultTimezone
	}

	if c.Chart.DefaultSymbol == "" {
		c.Chart.DefaultSymbol = utils.DefaultSymbol
	}
	if c.Chart.DefaultStartDate == "" {
		c.Chart.DefaultStartDate = utils.DefaultStartDate
	}
	if c.Chart.MinDate == "" {
		c.Chart.MinDate = utils.MinAllowedDate
	}
	if len(c.Chart.Windows) == 0 {
		c.Chart.Windows = utils.Windows(nil)
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = utils.DefaultHeight
	}

	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}
	if c.Network.ConcurrentRequests == 0 {
		c.Network.ConcurrentRequests = 4
	}

	if len(c.DataSource.Sources) == 0 {
		c.DataSource.Sources = []models.MSourceConfig{{Name: "yahoo", Type: "yahoo"}}
	}
	if c.DataSource.Default == "" {
		c.DataSource.Default = c.DataSource.Sources[0].Name
	}
}

// -----------------------------------------------------------------------------

// ApplyEnv overrides file values with STOCKTREND_* variables and fills
// missing credentials from ALPACA_API_KEY, ALPACA_API_SECRET and STOCKTREND_PG_DSN.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STOCKTREND_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("STOCKTREND_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return helpers.NewConfigurationError(fmt.Sprintf("STOCKTREND_PORT %q is not a number", v), err)
		}
		c.Port = port
	}
	if v := os.Getenv("STOCKTREND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STOCKTREND_DEFAULT_SYMBOL"); v != "" {
		c.Chart.DefaultSymbol = v
	}

	key, secret, dsn := os.Getenv("ALPACA_API_KEY"), os.Getenv("ALPACA_API_SECRET"), os.Getenv("STOCKTREND_PG_DSN")
	for i := range c.DataSource.Sources {
		src := &c.DataSource.Sources[i]
		switch strings.ToLower(src.Type) {
		case "alpaca":
			if src.APIKey == "" {
				src.APIKey = key
			}
			if src.APISecret == "" {
				src.APISecret = secret
			}
		case "postgres":
			if src.Storage.DBConnectionString == "" {
				src.Storage.DBConnectionString = dsn
			}
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

var sourceTypes = map[string]bool{"": true, "yahoo": true, "alpaca": true, "sqlite": true, "postgres": true, "parquet": true}

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d", c.Port)
	}
	// -1 disables the gRPC service
	if c.GrpcPort < -1 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return err
	}

	start, err := daterange.ParseDate(c.Chart.DefaultStartDate)
	if err != nil {
		return fmt.Errorf("default_start_date: %w", err)
	}
	minDate, err := daterange.ParseDate(c.Chart.MinDate)
	if err != nil {
		return fmt.Errorf("min_date: %w", err)
	}
	if start.Before(minDate) {
		return fmt.Errorf("default_start_date %s is before min_date %s", c.Chart.DefaultStartDate, c.Chart.MinDate)
	}
	for _, w := range c.Chart.Windows {
		if w <= 0 {
			return fmt.Errorf("window %d must be positive", w)
		}
	}
	if c.Chart.Height <= 0 {
		return fmt.Errorf("chart height must be greater than 0")
	}

	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return fmt.Errorf("concurrent requests must be greater than 0")
	}

	seen := make(map[string]bool)
	for i, src := range c.DataSource.Sources {
		if src.Name == "" {
			return fmt.Errorf("source %d must have a name", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("source '%s' is configured twice", src.Name)
		}
		seen[src.Name] = true
		if !sourceTypes[strings.ToLower(src.Type)] {
			return fmt.Errorf("source '%s' has unknown type '%s'", src.Name, src.Type)
		}
	}
	if c.DataSource.Default != "" && !seen[c.DataSource.Default] {
		return fmt.Errorf("default source '%s' is not configured", c.DataSource.Default)
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
