package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidExtension indicates an extension without a leading dot
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrOverlappingExtensions indicates an extension listed in both dialect sets
	ErrOverlappingExtensions = errors.New("overlapping extensions")

	// ErrEmptyTagNames indicates no template tag names are configured
	ErrEmptyTagNames = errors.New("empty tag names")

	// ErrInvalidPattern indicates an empty glob pattern
	ErrInvalidPattern = errors.New("invalid path pattern")

	// ErrInvalidScanSettings indicates invalid batch scan settings
	ErrInvalidScanSettings = errors.New("invalid scan settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtensions(&cfg.Extensions); err != nil {
		errs = append(errs, err)
	}

	if err := validateTags(&cfg.Tags); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateExtensions(cfg *ExtensionsConfig) error {
	var errs []error

	check := func(field string, exts []string) {
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				errs = append(errs, fmt.Errorf("%w: %s entry %q must start with '.'", ErrInvalidExtension, field, ext))
			}
		}
	}
	check("tag_scan", cfg.TagScan)
	check("query", cfg.Query)

	// The classifier would silently prefer tag_scan; make the conflict explicit.
	tagScan := make(map[string]bool, len(cfg.TagScan))
	for _, ext := range cfg.TagScan {
		tagScan[ext] = true
	}
	for _, ext := range cfg.Query {
		if tagScan[ext] {
			errs = append(errs, fmt.Errorf("%w: %q is in both tag_scan and query", ErrOverlappingExtensions, ext))
		}
	}

	return joinErrors(errs)
}

func validateTags(cfg *TagsConfig) error {
	if len(cfg.Names) == 0 {
		return fmt.Errorf("%w: at least one tag name required", ErrEmptyTagNames)
	}
	for _, name := range cfg.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: tag names cannot be blank", ErrEmptyTagNames)
		}
	}
	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error
	for _, p := range append(append([]string(nil), cfg.Include...), cfg.Ignore...) {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("%w: patterns cannot be blank", ErrInvalidPattern))
		}
	}
	return joinErrors(errs)
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidScanSettings, cfg.Workers))
	}

	if cfg.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidScanSettings, cfg.DebounceMS))
	}

	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size cannot be negative, got %d", ErrInvalidScanSettings, cfg.CacheSize))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into one that still matches each
// sentinel with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}
