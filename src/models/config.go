package models

// MConfig Structure
type MConfig struct {
	Name        string          `yaml:"name"`
	Host        string          `yaml:"host"`
	Port        int             `yaml:"port"`
	LogLevel    string          `yaml:"log_level"`
	GrpcHost    string          `yaml:"grpc_host"`
	GrpcPort    int             `yaml:"grpc_port"`
	APIPrefix   string          `yaml:"api_prefix"`
	CorsOrigins []string        `yaml:"cors_origins"`
	Storage     MStorageConfig  `yaml:"storage"`
	Network     MNetworkConfig  `yaml:"network"`
	Plant       MPlantConfig    `yaml:"plant"`
	Analysis    MAnalysisConfig `yaml:"analysis"`
	Live        MLiveConfig     `yaml:"live"`
	Auth        MAuthConfig     `yaml:"auth"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // sqlite, postgres or none
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	Rebuild            bool   `yaml:"rebuild"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"retries"`
	UserAgent      string `yaml:"user_agent"`
	Proxy          string `yaml:"proxy"`
}

type MPlantConfig struct {
	ArchivePath  string       `yaml:"archive_path"`
	ArchiveURL   string       `yaml:"archive_url"` // Optional
	DataDir      string       `yaml:"data_dir"`
	ExtractDir   string       `yaml:"extract_dir"`
	ScadaFile    string       `yaml:"scada_file"`
	AssetFile    string       `yaml:"asset_file"`
	CSVDelimiter string       `yaml:"csv_delimiter"`
	ScadaColumns MScadaSchema `yaml:"scada_columns"`
	AssetColumns MAssetSchema `yaml:"asset_columns"`
}

// MScadaSchema names the source columns (or index levels) of the measurement table.
type MScadaSchema struct {
	Time        string `yaml:"time"`
	AssetID     string `yaml:"asset_id"`
	WindSpeed   string `yaml:"wind_speed"`
	Power       string `yaml:"power"`
	Temperature string `yaml:"temperature"`
	TimeLayout  string `yaml:"time_layout"`
}

// MAssetSchema names the source columns of the asset table.
type MAssetSchema struct {
	AssetID         string  `yaml:"asset_id"`
	Latitude        string  `yaml:"latitude"`
	Longitude       string  `yaml:"longitude"`
	RatedPower      string  `yaml:"rated_power"`
	RatedPowerScale float64 `yaml:"rated_power_scale"` // multiplier to MW
}

type MAnalysisConfig struct {
	DefaultRange        string  `yaml:"default_range"`
	CurveRange          string  `yaml:"curve_range"`
	DefaultRatedPowerMW float64 `yaml:"default_rated_power_mw"`
	MaxScatterPoints    int     `yaml:"max_scatter_points"`
	CurveStepMS         float64 `yaml:"curve_step_ms"`
	MinWindSpeedMS      float64 `yaml:"min_wind_speed_ms"`
	MaxWindSpeedMS      float64 `yaml:"max_wind_speed_ms"`
	BinWidthMS          float64 `yaml:"bin_width_ms"`
	CurveStartMS        float64 `yaml:"curve_start_ms"`
	CurveEndMS          float64 `yaml:"curve_end_ms"`
	WarningTemperatureC float64 `yaml:"warning_temperature_c"`
	MaxTurbinePageLimit int     `yaml:"max_turbine_page_limit"`
	DefaultTurbineLimit int     `yaml:"default_turbine_limit"`
}

type MLiveConfig struct {
	Enabled                  bool   `yaml:"enabled"`
	BroadcastIntervalSeconds int    `yaml:"broadcast_interval_seconds"`
	Range                    string `yaml:"range"`
}

type MAuthConfig struct {
	JWTSecretKey             string `yaml:"jwt_secret_key"`
	JWTAlgorithm             string `yaml:"jwt_algorithm"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
}
