// Package config loads application configuration from file, environment,
// and defaults, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Risk   RiskConfig   `yaml:"risk" mapstructure:"risk"`
	Lookup LookupConfig `yaml:"lookup" mapstructure:"lookup"`
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// IndicatorConfig configures one of the four risk indicators.
type IndicatorConfig struct {
	Name          string   `yaml:"name" mapstructure:"name"`
	Threshold     float64  `yaml:"threshold" mapstructure:"threshold"`
	Columns       []string `yaml:"columns" mapstructure:"columns"`
	SumComparison bool     `yaml:"sum_comparison" mapstructure:"sum_comparison"`
}

// RiskConfig configures the classification pipeline. Values here reach
// the risk package as explicit parameters; the pipeline itself reads no
// global state.
type RiskConfig struct {
	UnitMode          string          `yaml:"unit_mode" mapstructure:"unit_mode"`
	AreaColumn        string          `yaml:"area_column" mapstructure:"area_column"`
	LowLabel          string          `yaml:"low_label" mapstructure:"low_label"`
	HighLabel         string          `yaml:"high_label" mapstructure:"high_label"`
	Treecover         IndicatorConfig `yaml:"treecover" mapstructure:"treecover"`
	Commodities       IndicatorConfig `yaml:"commodities" mapstructure:"commodities"`
	DisturbanceBefore IndicatorConfig `yaml:"disturbance_before" mapstructure:"disturbance_before"`
	DisturbanceAfter  IndicatorConfig `yaml:"disturbance_after" mapstructure:"disturbance_after"`
}

// LookupConfig configures canonical column ordering.
type LookupConfig struct {
	Path        string   `yaml:"path" mapstructure:"path"`
	NameColumn  string   `yaml:"name_column" mapstructure:"name_column"`
	OrderColumn string   `yaml:"order_column" mapstructure:"order_column"`
	Prefix      []string `yaml:"prefix" mapstructure:"prefix"`
}

// IngestConfig configures shapefile ingestion.
type IngestConfig struct {
	AreaColumn      string `yaml:"area_column" mapstructure:"area_column"`
	IncludeCentroid bool   `yaml:"include_centroid" mapstructure:"include_centroid"`
	IncludeWKB      bool   `yaml:"include_wkb" mapstructure:"include_wkb"`
}

// StoreConfig configures the local run ledger.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WHISP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("store.path", "whisp.db")
	v.SetDefault("risk.unit_mode", "percent")
	v.SetDefault("risk.area_column", "Plot_area_ha")
	v.SetDefault("risk.low_label", "no")
	v.SetDefault("risk.high_label", "yes")
	v.SetDefault("risk.treecover.name", "Indicator_1_treecover")
	v.SetDefault("risk.treecover.threshold", 10.0)
	v.SetDefault("risk.treecover.columns", []string{
		"EUFO_2020", "GLAD_Primary", "TMF_undist", "JAXA_FNF_2020", "GFC_TC_2020", "ESA_TC_2020",
	})
	v.SetDefault("risk.commodities.name", "Indicator_2_commodities")
	v.SetDefault("risk.commodities.threshold", 10.0)
	v.SetDefault("risk.commodities.columns", []string{
		"TMF_plant", "Oil_palm_Descals", "Cocoa_ETH", "Oil_palm_FDaP",
	})
	v.SetDefault("risk.disturbance_before.name", "Indicator_3_disturbance_before_2020")
	v.SetDefault("risk.disturbance_before.threshold", 0.0)
	v.SetDefault("risk.disturbance_before.columns", []string{
		"TMF_deg_before_2020", "TMF_def_before_2020", "GFC_loss_before_2020", "MODIS_fire_before_2020",
	})
	v.SetDefault("risk.disturbance_after.name", "Indicator_4_disturbance_after_2020")
	v.SetDefault("risk.disturbance_after.threshold", 0.0)
	v.SetDefault("risk.disturbance_after.columns", []string{
		"TMF_deg_after_2020", "TMF_def_after_2020", "GFC_loss_after_2020", "MODIS_fire_after_2020", "RADD_after_2020",
	})
	v.SetDefault("lookup.name_column", "dataset_name")
	v.SetDefault("lookup.order_column", "dataset_order")
	v.SetDefault("lookup.prefix", []string{"geo_id", "Plot_area_ha", "Country"})
	v.SetDefault("ingest.area_column", "Plot_area_ha")
	v.SetDefault("ingest.include_centroid", true)
	v.SetDefault("ingest.include_wkb", false)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
