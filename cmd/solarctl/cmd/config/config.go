// Package config holds the solarctl CLI configuration: named server contexts
// and, per context, the persisted session fragment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName        = "solarctl"
	ConfigFileName = "config"
	ConfigFileType = "yaml"
)

// Context is a single named server target. The access_token/user_id/role
// triple is the persisted session fragment for that server; it is written by
// 'auth login' and cleared by 'auth logout', always as a unit.
type Context struct {
	Name           string `mapstructure:"name"`
	ServerEndpoint string `mapstructure:"server_endpoint"`
	AccessToken    string `mapstructure:"access_token,omitempty"`
	UserID         string `mapstructure:"user_id,omitempty"`
	Role           string `mapstructure:"role,omitempty"`
}

// CLIConfig is the whole config file.
type CLIConfig struct {
	CurrentContext string              `mapstructure:"current_context"`
	Contexts       map[string]*Context `mapstructure:"contexts"`
}

var (
	GlobalConfig *CLIConfig
	CfgFile      string
)

// InitConfig reads the config file (flag path or $HOME/.solarctl/config.yaml).
// A missing file is fine; it is created on the first save.
func InitConfig() error {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		configPath := filepath.Join(home, "."+AppName)

		viper.AddConfigPath(configPath)
		viper.SetConfigName(ConfigFileName)
		viper.SetConfigType(ConfigFileType)

		if err := os.MkdirAll(configPath, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", configPath, err)
		}
		CfgFile = filepath.Join(configPath, ConfigFileName+"."+ConfigFileType)
	}

	viper.AutomaticEnv()

	GlobalConfig = &CLIConfig{Contexts: make(map[string]*Context)}

	if err := viper.ReadInConfig(); err == nil {
		CfgFile = viper.ConfigFileUsed()
	} else {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	if err := viper.Unmarshal(GlobalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if GlobalConfig.Contexts == nil {
		GlobalConfig.Contexts = make(map[string]*Context)
	}
	return nil
}

// SaveConfig writes GlobalConfig back to the config file.
func SaveConfig() error {
	if CfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		CfgFile = filepath.Join(home, "."+AppName, ConfigFileName+"."+ConfigFileType)
	}

	if err := os.MkdirAll(filepath.Dir(CfgFile), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settings := map[string]interface{}{
		"current_context": GlobalConfig.CurrentContext,
		"contexts":        GlobalConfig.Contexts,
	}
	if err := viper.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge config map for saving: %w", err)
	}
	if err := viper.WriteConfigAs(CfgFile); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", CfgFile, err)
	}
	return nil
}

// GetCurrentContext returns the active context, defaulting to the sole
// defined context when none is marked current.
func GetCurrentContext() (*Context, error) {
	if GlobalConfig == nil || GlobalConfig.Contexts == nil {
		return nil, errors.New("config not initialized")
	}
	if GlobalConfig.CurrentContext == "" && len(GlobalConfig.Contexts) == 1 {
		for name := range GlobalConfig.Contexts {
			GlobalConfig.CurrentContext = name
		}
	}
	if GlobalConfig.CurrentContext == "" {
		return nil, errors.New("no current context set; use 'solarctl config set-context <name> --server <endpoint>'")
	}
	ctx, exists := GlobalConfig.Contexts[GlobalConfig.CurrentContext]
	if !exists {
		return nil, fmt.Errorf("current context %q not found in configuration", GlobalConfig.CurrentContext)
	}
	return ctx, nil
}
