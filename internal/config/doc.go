// Package config loads runtime configuration from multiple sources (YAML
// files, environment variables, CLI flags) with precedence: CLI flags > YAML
// config > Environment variables > Defaults. It exposes strongly typed
// settings covering the HTTP server, the CORS origin list, the clearance
// buffer, and the initial carton catalog.
package config
