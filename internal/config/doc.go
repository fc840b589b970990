// Package config loads and validates application settings from defaults, an
// optional YAML file, an optional .env file, and TASKLY_-prefixed
// environment variables.
package config
