// Package config handles configuration loading, parsing, and validation
// from environment variables (prefixed with CALSHARE_), an optional
// config.yaml and built-in defaults.
package config
