// Package config provides a reusable loader for kernel configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.2.0
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"andromeda-kernel/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.2.0"

// Config is the unified configuration for a kerneld node. It mirrors the
// structure of the YAML files under cmd/kerneld/config.
type Config struct {
	Kernel struct {
		Address    string `mapstructure:"address" json:"address"`
		Owner      string `mapstructure:"owner" json:"owner"`
		LocalChain string `mapstructure:"local_chain" json:"local_chain"`
		TriggerKey string `mapstructure:"trigger_key" json:"trigger_key"`
	} `mapstructure:"kernel" json:"kernel"`

	VFS struct {
		SymlinkDepthLimit int `mapstructure:"symlink_depth_limit" json:"symlink_depth_limit"`
		SymlinkCacheSize  int `mapstructure:"symlink_cache_size" json:"symlink_cache_size"`
	} `mapstructure:"vfs" json:"vfs"`

	ADODB struct {
		RegistryOwner string `mapstructure:"registry_owner" json:"registry_owner"`
	} `mapstructure:"adodb" json:"adodb"`

	Economics struct {
		NativeDenom string `mapstructure:"native_denom" json:"native_denom"`
	} `mapstructure:"economics" json:"economics"`

	IBC struct {
		TimeoutHorizonSeconds uint64 `mapstructure:"timeout_horizon_seconds" json:"timeout_horizon_seconds"`
		WasmGRPCEndpoint      string `mapstructure:"wasm_grpc_endpoint" json:"wasm_grpc_endpoint"`
	} `mapstructure:"ibc" json:"ibc"`

	Metrics struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"metrics" json:"metrics"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads a .env file (if present) into the process environment, then
// reads configuration files and merges any environment specific overrides.
// The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, utils.Wrap(err, "load .env")
	}

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/kerneld/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	setDefaults()
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("ANDROMEDA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // picks up ANDROMEDA_* overrides

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the ANDROMEDA_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("ANDROMEDA_ENV", ""))
}

// setDefaults seeds viper with the values spec.md leaves as suggestions
// (the symlink bound, the one-week IBC timeout horizon) so a config file
// that omits them still behaves per spec.
func setDefaults() {
	viper.SetDefault("vfs.symlink_depth_limit", 8)
	viper.SetDefault("vfs.symlink_cache_size", 1024)
	viper.SetDefault("economics.native_denom", "uandr")
	viper.SetDefault("ibc.timeout_horizon_seconds", 7*24*60*60)
	viper.SetDefault("metrics.listen_addr", ":9090")
	viper.SetDefault("logging.level", "info")
}
