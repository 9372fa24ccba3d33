package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Path to the credential/settings database
	StorePath string

	// Plugin name used to scope stored credentials and settings
	PluginName string

	// Log level: debug, info, warn, error
	LogLevel string

	// Last.fm API credentials
	LastFM LastFMConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey    string
	APISecret string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("store_path", filepath.Join(configDir, "scrobblekit.db"))
	v.SetDefault("plugin_name", "scrobblekit")
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("SCROBBLEKIT")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		StorePath:  v.GetString("store_path"),
		PluginName: v.GetString("plugin_name"),
		LogLevel:   v.GetString("log_level"),
		LastFM: LastFMConfig{
			APIKey:    v.GetString("lastfm.api_key"),
			APISecret: v.GetString("lastfm.api_secret"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "scrobblekit")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("store_path", c.StorePath)
	v.Set("plugin_name", c.PluginName)
	v.Set("log_level", c.LogLevel)
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.api_secret", c.LastFM.APISecret)

	// Write to file
	return v.WriteConfigAs(configFile)
}
