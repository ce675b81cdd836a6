// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Deploy-time values (endpoints, NATS URL, listen port) may be overridden
// through environment variables, optionally sourced from a .env file.
package config
