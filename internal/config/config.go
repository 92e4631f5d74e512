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
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Analyze AnalyzeConfig `yaml:"analyze" mapstructure:"analyze"`
	Infer   InferConfig   `yaml:"infer" mapstructure:"infer"`
	Convert ConvertConfig `yaml:"convert" mapstructure:"convert"`
	Ledger  LedgerConfig  `yaml:"ledger" mapstructure:"ledger"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// OutputConfig configures where and how converted files are written.
type OutputConfig struct {
	Format    string `yaml:"format" mapstructure:"format"`
	Directory string `yaml:"directory" mapstructure:"directory"`
}

// AnalyzeConfig configures structure detection.
type AnalyzeConfig struct {
	SampleRows          int `yaml:"sample_rows" mapstructure:"sample_rows"`
	EncodingSampleBytes int `yaml:"encoding_sample_bytes" mapstructure:"encoding_sample_bytes"`
	DialectSampleBytes  int `yaml:"dialect_sample_bytes" mapstructure:"dialect_sample_bytes"`
}

// InferConfig configures type inference.
type InferConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	MaxConflicts        int     `yaml:"max_conflicts" mapstructure:"max_conflicts"`
	MaxSampleValues     int     `yaml:"max_sample_values" mapstructure:"max_sample_values"`
}

// ConvertConfig configures the batch conversion run.
type ConvertConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LedgerConfig configures the SQLite run-history ledger.
// An empty path disables the ledger.
type LedgerConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("CSVFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("output.format", "json")
	v.SetDefault("output.directory", "output")
	v.SetDefault("analyze.sample_rows", 5)
	v.SetDefault("analyze.encoding_sample_bytes", 100*1024)
	v.SetDefault("analyze.dialect_sample_bytes", 10*1024)
	v.SetDefault("infer.confidence_threshold", 0.8)
	v.SetDefault("infer.max_conflicts", 10)
	v.SetDefault("infer.max_sample_values", 5)
	v.SetDefault("convert.concurrency", 1)
	v.SetDefault("ledger.path", "csvforge.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
