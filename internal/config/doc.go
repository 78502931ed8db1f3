// Package config defines the application configuration structure and
// loading logic. Configuration comes from environment variables with the
// KANBAN_ prefix and, optionally, a config.yaml file; environment
// variables take precedence.
package config
