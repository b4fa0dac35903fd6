// Package config loads and validates the simbev scenario configuration.
//
// Configuration is read from a YAML file and validated with struct tags.
package config
