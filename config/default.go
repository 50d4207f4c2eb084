package config

import _ "embed"

// DefaultConfigYAML is the built-in configuration, overridable by an external
// config file and TEAMSPEND_* environment variables.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
