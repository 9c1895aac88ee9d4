// Package config manages gittasks configuration.
//
// It handles:
//   - Repository-specific configuration stored under .git
//   - User configuration (author identity and credentials) read through viper
package config
