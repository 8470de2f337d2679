// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	RPCList           []string `mapstructure:"rpc_list"`
	Commitment        string   `mapstructure:"commitment"`
	CacheTTLMs        int      `mapstructure:"cache_ttl_ms"`
	Retries           int      `mapstructure:"retries"`
	DebugLogging      bool     `mapstructure:"debug_logging"`
	LogFile           string   `mapstructure:"log_file"`
	LogMaxSizeMB      int      `mapstructure:"log_max_size_mb"`
	LogMaxAgeDays     int      `mapstructure:"log_max_age_days"`
	LogMaxBackups     int      `mapstructure:"log_max_backups"`
	FundraisingTarget uint64   `mapstructure:"fundraising_target"`
	WatchIntervalMs   int      `mapstructure:"watch_interval_ms"`
}

const (
	DefaultCacheTTLMs      = 10_000
	DefaultRetries         = 3
	DefaultCommitment      = "confirmed"
	DefaultLogFile         = "curvelab.log"
	DefaultLogMaxSizeMB    = 100
	DefaultLogMaxAgeDays   = 7
	DefaultLogMaxBackups   = 3
	DefaultWatchIntervalMs = 2_000
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"commitment":        DefaultCommitment,
		"cache_ttl_ms":      DefaultCacheTTLMs,
		"retries":           DefaultRetries,
		"log_file":          DefaultLogFile,
		"log_max_size_mb":   DefaultLogMaxSizeMB,
		"log_max_age_days":  DefaultLogMaxAgeDays,
		"log_max_backups":   DefaultLogMaxBackups,
		"watch_interval_ms": DefaultWatchIntervalMs,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	switch cfg.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return errors.New("commitment must be processed, confirmed or finalized")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.CacheTTLMs <= 0 {
		return errors.New("invalid cache_ttl_ms")
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.WatchIntervalMs <= 0 {
		return errors.New("invalid watch_interval_ms")
	}
	if cfg.LogMaxSizeMB <= 0 || cfg.LogMaxAgeDays <= 0 || cfg.LogMaxBackups < 0 {
		return errors.New("invalid log rotation parameters")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("CURVELAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}
	return nil
}
