package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAPIURL   = "http://localhost:8080"
	DefaultTimeout  = 15 * time.Second
	DefaultLogLevel = "ERROR"
)

// ConfigDir returns the directory holding config.yaml and the stored
// credentials.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".okrctl")
	}
	return filepath.Join(home, ".config", "okrctl")
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("config_dir", ConfigDir())
	v.SetDefault("log_level", DefaultLogLevel)
}

// loadConfig applies defaults, the config file and OKR_* environment
// variables to v. A missing config file is not an error.
func loadConfig(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix("OKR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("config_dir"))
		v.AddConfigPath("$HOME/.config/okrctl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}
