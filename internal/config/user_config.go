package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// UserConfig holds the author identity and remote credentials used by the CLI.
// Values come from the config file, then GITTASKS_* environment variables.
type UserConfig struct {
	AuthorName    string
	AuthorEmail   string
	Username      string
	Password      string
	SSHKeyPath    string
	SSHPublicPath string
	SSHPassphrase string
	LogFile       string
}

// DefaultUserConfigPath returns ~/.config/gittasks/config.yaml, honoring GITTASKS_CONFIG
func DefaultUserConfigPath() string {
	if p := os.Getenv("GITTASKS_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gittasks", "config.yaml")
}

// LoadUserConfig reads the user configuration. A missing file is not an error.
func LoadUserConfig(path string) (*UserConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("GITTASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("author.name", "gittasks")
	v.SetDefault("author.email", "gittasks@localhost")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read user config: %w", err)
			}
		}
	}

	return &UserConfig{
		AuthorName:    v.GetString("author.name"),
		AuthorEmail:   v.GetString("author.email"),
		Username:      v.GetString("credential.username"),
		Password:      v.GetString("credential.password"),
		SSHKeyPath:    v.GetString("credential.ssh_key"),
		SSHPublicPath: v.GetString("credential.ssh_public_key"),
		SSHPassphrase: v.GetString("credential.ssh_passphrase"),
		LogFile:       v.GetString("log.file"),
	}, nil
}
