// Package config defines the application's configuration structure and
// loads it from environment variables and optional config files via viper.
package config
