package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SinkConfig holds the telemetry sink endpoint and credentials. URL and
// Token may be empty; delivery and probing then report the missing
// configuration instead of failing hard.
type SinkConfig struct {
	URL          string        `mapstructure:"url"`
	Token        string        `mapstructure:"token"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	SendTimeout  time.Duration `mapstructure:"send_timeout"`
}

// ProxyConfig configures the httpbin proxy endpoint's outbound call.
type ProxyConfig struct {
	UpstreamURL   string        `mapstructure:"upstream_url"`
	ProxyURL      string        `mapstructure:"proxy_url"`
	CACertPath    string        `mapstructure:"ca_cert_path"`
	TLSSkipVerify bool          `mapstructure:"tls_skip_verify"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Insecure    bool    `mapstructure:"insecure"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8070)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("sink.url", "")
	v.SetDefault("sink.token", "")
	v.SetDefault("sink.probe_timeout", "5s")
	v.SetDefault("sink.send_timeout", "10s")
	v.SetDefault("proxy.upstream_url", "https://httpbin.org/get")
	v.SetDefault("proxy.proxy_url", "")
	v.SetDefault("proxy.ca_cert_path", "")
	v.SetDefault("proxy.tls_skip_verify", false)
	v.SetDefault("proxy.timeout", "10s")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "eventgen")
	v.SetDefault("tracing.sample_ratio", 1.0)
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/eventgen")
	}

	// Environment variables override
	v.SetEnvPrefix("EVENTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The sink credentials are conventionally provided via the backend's
	// own variable names; accept those as fallbacks.
	_ = v.BindEnv("sink.url", "EVENTGEN_SINK_URL", "DT_API_URL")
	_ = v.BindEnv("sink.token", "EVENTGEN_SINK_TOKEN", "DT_API_TOKEN")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
