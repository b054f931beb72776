package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Renderer RendererConfig `yaml:"renderer" mapstructure:"renderer"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig configures access to the frequency database site.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`

	// Politeness delays are a rate-limiting contract with the external
	// site; values are configurable minimums, in milliseconds.
	CandidateDelayMS int `yaml:"candidate_delay_ms" mapstructure:"candidate_delay_ms"`
	ProbeDelayMS     int `yaml:"probe_delay_ms" mapstructure:"probe_delay_ms"`
	VerifyDelayMS    int `yaml:"verify_delay_ms" mapstructure:"verify_delay_ms"`
	StateDelayMS     int `yaml:"state_delay_ms" mapstructure:"state_delay_ms"`
}

// GeocodeConfig configures the location-resolution collaborators.
type GeocodeConfig struct {
	ZipBaseURL       string `yaml:"zip_base_url" mapstructure:"zip_base_url"`
	NominatimBaseURL string `yaml:"nominatim_base_url" mapstructure:"nominatim_base_url"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Offline          bool   `yaml:"offline" mapstructure:"offline"`
	OfflineDataDir   string `yaml:"offline_data_dir" mapstructure:"offline_data_dir"`
}

// CacheConfig configures local persistence.
type CacheConfig struct {
	CountyFile   string `yaml:"county_file" mapstructure:"county_file"`
	PageDB       string `yaml:"page_db" mapstructure:"page_db"`
	PageTTLHours int    `yaml:"page_ttl_hours" mapstructure:"page_ttl_hours"`
}

// RendererConfig configures the headless-browser collaborator.
type RendererConfig struct {
	Enabled     bool `yaml:"enabled" mapstructure:"enabled"`
	TimeoutSecs int  `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// HTTPTimeout returns the site fetch timeout as a duration.
func (c SourceConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CandidateDelay returns the delay between identifier-candidate test fetches.
func (c SourceConfig) CandidateDelay() time.Duration {
	return time.Duration(c.CandidateDelayMS) * time.Millisecond
}

// ProbeDelay returns the delay inside discovery probe loops.
func (c SourceConfig) ProbeDelay() time.Duration {
	return time.Duration(c.ProbeDelayMS) * time.Millisecond
}

// VerifyDelay returns the delay between external verification calls.
func (c SourceConfig) VerifyDelay() time.Duration {
	return time.Duration(c.VerifyDelayMS) * time.Millisecond
}

// StateDelay returns the delay between per-state discovery batches.
func (c SourceConfig) StateDelay() time.Duration {
	return time.Duration(c.StateDelayMS) * time.Millisecond
}

// HTTPTimeout returns the geocoding request timeout as a duration.
func (c GeocodeConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// PageTTL returns how long cached page bodies stay fresh.
func (c CacheConfig) PageTTL() time.Duration {
	return time.Duration(c.PageTTLHours) * time.Hour
}

// RenderTimeout returns the per-page headless-browser timeout.
func (c RendererConfig) RenderTimeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("freqscout")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FREQSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.base_url", "https://www.radioreference.com")
	v.SetDefault("source.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("source.timeout_secs", 15)
	v.SetDefault("source.candidate_delay_ms", 300)
	v.SetDefault("source.probe_delay_ms", 500)
	v.SetDefault("source.verify_delay_ms", 1000)
	v.SetDefault("source.state_delay_ms", 2000)
	v.SetDefault("geocode.zip_base_url", "https://api.zippopotam.us")
	v.SetDefault("geocode.nominatim_base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "freqscout/1.0 (+https://github.com/freqscout/freqscout-cli)")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.offline", false)
	v.SetDefault("cache.county_file", "countyID.db")
	v.SetDefault("cache.page_db", "pagecache.sqlite")
	v.SetDefault("cache.page_ttl_hours", 24)
	v.SetDefault("renderer.enabled", true)
	v.SetDefault("renderer.timeout_secs", 30)
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
