package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	LogFile    string            `yaml:"log_file"`
	GrpcHost   string            `yaml:"grpc_host"`
	GrpcPort   int               `yaml:"grpc_port"`
	Timezone   string            `yaml:"timezone"`
	Chart      MChartConfig      `yaml:"chart"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
}

type MChartConfig struct {
	DefaultSymbol    string `yaml:"default_symbol"`
	DefaultStartDate string `yaml:"default_start_date"`
	MinDate          string `yaml:"min_date"`
	Windows          []int  `yaml:"windows"`
	Height           int    `yaml:"height"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	Default string          `yaml:"default"`
	Sources []MSourceConfig `yaml:"sources"`
}

// MSourceConfig describes one named data source. Which fields matter depends on Type:
// yahoo needs nothing, alpaca needs credentials, sqlite/postgres need Storage,
// parquet needs Dir.
type MSourceConfig struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`
	APIKey    string         `yaml:"api_key"`    // Optional
	APISecret string         `yaml:"api_secret"` // Optional
	BaseURL   string         `yaml:"base_url"`   // Optional
	Feed      string         `yaml:"feed"`       // Optional
	Dir       string         `yaml:"dir"`
	Market    string         `yaml:"market"`
	Storage   MStorageConfig `yaml:"storage"`
}

type MStorageConfig struct {
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	BarsTable          string `yaml:"bars_table"`
	NamesTable         string `yaml:"names_table"`
}

// -----------------------------------------------------------------------------

// GetLogLevel lets the logger pick up the level without importing the config package
func (c *MConfig) GetLogLevel() string {
	return c.LogLevel
}

// -----------------------------------------------------------------------------

func (c *MConfig) GetLogFile() string {
	return c.LogFile
}
