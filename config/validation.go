package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dotforge/dotkit/errors"
)

var versionRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)

// knownThemes lists the theme names accepted in tui.theme.
var knownThemes = map[string]bool{
	"kanagawa": true,
	"gruvbox":  true,
	"terminal": true,
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != "" && !versionRegex.MatchString(c.Version) {
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("invalid version '%s' (expected a dotted number like 1.0)", c.Version)).
			WithDetail("version", c.Version)
	}

	if c.Linker != nil {
		if err := validateLinker(c.Linker); err != nil {
			return err
		}
	}

	if c.Hooks != nil {
		if c.Hooks.Config != "" && strings.Contains(c.Hooks.Config, "..") {
			return errors.New(errors.ErrCodeConfigValidation, "hooks.config cannot contain '..'").
				WithDetail("config", c.Hooks.Config)
		}
	}

	if c.TUI != nil && c.TUI.Theme != "" {
		if !knownThemes[c.TUI.Theme] {
			return errors.New(errors.ErrCodeConfigValidation,
				fmt.Sprintf("unknown theme '%s' (valid: kanagawa, gruvbox, terminal)", c.TUI.Theme)).
				WithDetail("theme", c.TUI.Theme)
		}
	}

	return nil
}

func validateLinker(l *LinkerConfig) error {
	// The locations file is resolved inside the source directory, so it must
	// stay a plain relative name.
	if l.LocationsFile != "" {
		if filepath.IsAbs(l.LocationsFile) {
			return errors.New(errors.ErrCodeConfigValidation, "linker.locations_file must be relative to the source directory").
				WithDetail("locations_file", l.LocationsFile)
		}
		if strings.Contains(l.LocationsFile, "..") {
			return errors.New(errors.ErrCodeConfigValidation, "linker.locations_file cannot contain '..'").
				WithDetail("locations_file", l.LocationsFile)
		}
	}

	return nil
}
