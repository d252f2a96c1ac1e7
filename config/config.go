// Package config loads and validates process configuration.
//
// Precedence, highest to lowest: flags > FILECAB_* environment variables >
// config files > defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	filecabhttp "github.com/anverma/filecab/http"
	"github.com/anverma/filecab/mongo"
	"github.com/anverma/filecab/sessionstore"
)

// Config is the root configuration struct.
type Config struct {
	Server  ServerConfig           `mapstructure:"server"`
	Mongo   mongo.Config           `mapstructure:"mongo"`
	Redis   sessionstore.Config    `mapstructure:"redis"`
	Storage StorageConfig          `mapstructure:"storage"`
	Queue   QueueConfig            `mapstructure:"queue"`
	CORS    filecabhttp.CORSConfig `mapstructure:"cors"`
	Log     LogConfig              `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// StorageConfig holds blob storage configuration. Path is the content root
// directory where blobs are written.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// QueueConfig holds the in-process user queue configuration.
type QueueConfig struct {
	Capacity int `mapstructure:"capacity" validate:"min=1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":         "server.port",
	"mongo-uri":    "mongo.uri",
	"mongo-db":     "mongo.database",
	"redis-addr":   "redis.addr",
	"storage-path": "storage.path",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "files_manager")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.path", "/tmp/files_manager")

	v.SetDefault("queue.capacity", 64)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	v.SetEnvPrefix("FILECAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
