// Package config loads gqlextract settings from .gqlextract/config.yml with
// GQLEXTRACT_* environment overrides.
package config

import (
	"github.com/mvp-joe/gqlextract/internal/extract"
	"github.com/mvp-joe/gqlextract/internal/extract/tags"
)

// Config represents the complete gqlextract configuration.
type Config struct {
	Extensions ExtensionsConfig `yaml:"extensions" mapstructure:"extensions"`
	Tags       TagsConfig       `yaml:"tags" mapstructure:"tags"`
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Scan       ScanConfig       `yaml:"scan" mapstructure:"scan"`
}

// ExtensionsConfig holds the caller-configurable dialect allow-lists.
// Extensions are matched case-sensitively and include the leading dot.
type ExtensionsConfig struct {
	TagScan []string `yaml:"tag_scan" mapstructure:"tag_scan"` // routed to the tag-finding engine
	Query   []string `yaml:"query" mapstructure:"query"`       // whole file is one GraphQL document
}

// TagsConfig controls which identifiers mark a GraphQL template.
type TagsConfig struct {
	Names []string `yaml:"names" mapstructure:"names"` // e.g. ["gql", "graphql"]
}

// PathsConfig defines which files the CLI scans and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for candidate files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// ScanConfig tunes batch extraction.
type ScanConfig struct {
	Workers    int `yaml:"workers" mapstructure:"workers"`         // concurrent extractions
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // watch mode debounce
	CacheSize  int `yaml:"cache_size" mapstructure:"cache_size"`   // cached extraction results, 0 disables
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extensions: ExtensionsConfig{
			TagScan: extract.DefaultTagScanExtensions(),
			Query:   extract.DefaultQueryExtensions(),
		},
		Tags: TagsConfig{
			Names: append([]string(nil), tags.DefaultTagNames...),
		},
		Paths: PathsConfig{
			Include: []string{
				"**/*.graphql",
				"**/*.graphqls",
				"**/*.gql",
				"**/*.js",
				"**/*.jsx",
				"**/*.mjs",
				"**/*.cjs",
				"**/*.ts",
				"**/*.tsx",
				"**/*.mts",
				"**/*.cts",
				"**/*.vue",
				"**/*.svelte",
				"**/*.astro",
				"**/*.py",
				"**/*.rb",
				"**/*.php",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"__pycache__/**",
				"**/*.min.js",
			},
		},
		Scan: ScanConfig{
			Workers:    8,
			DebounceMS: 300,
			CacheSize:  1000,
		},
	}
}
