package config

import (
	"fmt"
	"os"
	"strconv"

	"windfarm-observer/src/analysis"
	"windfarm-observer/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the YAML file
const (
	EnvJWTSecret    = "WINDFARM_JWT_SECRET"
	EnvDBConnString = "WINDFARM_DB_CONNECTION_STRING"
	EnvDBPath       = "WINDFARM_DB_PATH"
	EnvPort         = "WINDFARM_PORT"
	EnvArchivePath  = "WINDFARM_ARCHIVE_PATH"
	EnvLogLevel     = "WINDFARM_LOG_LEVEL"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal over the defaults so omitted fields keep them
	modelConfig := Defaults()
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Environment (.env file first, when present)
	_ = godotenv.Load()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Defaults returns the configuration used for every field the file omits
func Defaults() models.MConfig {
	return models.MConfig{
		Name:        "windfarm-observer",
		Host:        "0.0.0.0",
		Port:        8000,
		LogLevel:    "INFO",
		GrpcHost:    "0.0.0.0",
		GrpcPort:    50051,
		APIPrefix:   "/api",
		CorsOrigins: []string{"*"},
		Storage: models.MStorageConfig{
			DBType: "sqlite",
			DBPath: "data/windfarm.db",
		},
		Network: models.MNetworkConfig{
			RequestTimeout: 120,
			MaxRetries:     3,
			UserAgent:      "windfarm-observer/1.0",
		},
		Plant: models.MPlantConfig{
			ArchivePath:  "data/la_haute_borne.zip",
			DataDir:      "data",
			ExtractDir:   "la_haute_borne",
			ScadaFile:    "la-haute-borne-data-2014-2015.csv",
			AssetFile:    "la-haute-borne_asset_table.csv",
			CSVDelimiter: ";",
			ScadaColumns: models.MScadaSchema{
				Time:        "Date_time",
				AssetID:     "Wind_turbine_name",
				WindSpeed:   "Ws_avg",
				Power:       "P_avg",
				Temperature: "Ot_avg",
			},
			AssetColumns: models.MAssetSchema{
				AssetID:         "Wind_turbine_name",
				Latitude:        "Latitude",
				Longitude:       "Longitude",
				RatedPower:      "Rated_power",
				RatedPowerScale: 0.001,
			},
		},
		Analysis: models.MAnalysisConfig{
			DefaultRange:        analysis.Range24h,
			CurveRange:          analysis.Range30d,
			DefaultRatedPowerMW: 2.05,
			MaxScatterPoints:    2500,
			CurveStepMS:         0.25,
			MinWindSpeedMS:      0,
			MaxWindSpeedMS:      35,
			BinWidthMS:          0.5,
			CurveStartMS:        0,
			CurveEndMS:          30,
			WarningTemperatureC: 35,
			MaxTurbinePageLimit: 200,
			DefaultTurbineLimit: 50,
		},
		Live: models.MLiveConfig{
			Enabled:                  true,
			BroadcastIntervalSeconds: 10,
			Range:                    analysis.Range24h,
		},
		Auth: models.MAuthConfig{
			JWTAlgorithm:             "HS256",
			AccessTokenExpireMinutes: 30,
		},
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecretKey = v
	}
	if v := os.Getenv(EnvDBConnString); v != "" {
		c.Storage.DBConnectionString = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv(EnvArchivePath); v != "" {
		c.Plant.ArchivePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", EnvPort, v)
		}
		c.Port = port
	}
	return nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	// 0 disables the control service
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	// Validate Storage configuration
	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	case "none":
	default:
		return fmt.Errorf("unsupported database type %q (sqlite, postgres or none)", c.Storage.DBType)
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Validate Plant dataset
	if c.Plant.DataDir == "" || c.Plant.ScadaFile == "" {
		return fmt.Errorf("plant data_dir and scada_file must be set")
	}
	if c.Plant.ScadaColumns.Time == "" {
		return fmt.Errorf("plant scada_columns.time must be set")
	}
	if c.Plant.AssetColumns.RatedPowerScale < 0 {
		return fmt.Errorf("plant asset_columns.rated_power_scale cannot be negative")
	}

	// Validate Analysis settings
	for _, key := range []string{c.Analysis.DefaultRange, c.Analysis.CurveRange, c.Live.Range} {
		if key == "" {
			continue
		}
		if _, err := analysis.ParseRange(key); err != nil {
			return err
		}
	}
	if c.Analysis.MaxWindSpeedMS != 0 && c.Analysis.MaxWindSpeedMS <= c.Analysis.MinWindSpeedMS {
		return fmt.Errorf("analysis max_wind_speed_ms must exceed min_wind_speed_ms")
	}
	if c.Analysis.DefaultTurbineLimit > c.Analysis.MaxTurbinePageLimit && c.Analysis.MaxTurbinePageLimit > 0 {
		return fmt.Errorf("analysis default_turbine_limit exceeds max_turbine_page_limit")
	}

	// Validate Live feed
	if c.Live.Enabled && c.Live.BroadcastIntervalSeconds <= 0 {
		return fmt.Errorf("live broadcast interval must be greater than 0")
	}

	// Validate Auth
	if c.Auth.JWTSecretKey == "" {
		return fmt.Errorf("auth jwt_secret_key cannot be empty (set %s)", EnvJWTSecret)
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("auth access_token_expire_minutes must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
