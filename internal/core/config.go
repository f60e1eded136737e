package core

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config stores the server connection and the local user's credentials.
type Config struct {
	Version   int    `json:"version"`
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "huddle", "config.json"), nil
}

// CachePath returns the location of the local sqlite cache.
func CachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "huddle", "huddle.db"), nil
}

// ReadConfig reads the config file if present; nil means never logged in.
func ReadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// WriteConfig writes the config to disk, creating the directory as needed.
// The file is user-only: it holds the auth token.
func WriteConfig(config Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if config.Version == 0 {
		config.Version = 1
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
