package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadWithOverrides loads configuration with override files
func LoadWithOverrides(baseFile string) (*Config, error) {
	// Load base configuration
	config, err := Load(baseFile)
	if err != nil {
		return nil, err
	}

	// Look for override files
	dir := filepath.Dir(baseFile)
	overrides := []string{
		filepath.Join(dir, "dotkit.override.yml"),
		filepath.Join(dir, "dotkit.override.yaml"),
		filepath.Join(dir, ".dotkit.override.yml"),
		filepath.Join(dir, ".dotkit.override.yaml"),
	}

	for _, overrideFile := range overrides {
		if _, err := os.Stat(overrideFile); err == nil {
			// Load override without validation
			data, err := os.ReadFile(overrideFile)
			if err != nil {
				return nil, fmt.Errorf("read override %s: %w", overrideFile, err)
			}

			// Expand environment variables
			expanded := expandEnvVars(string(data))

			var override Config
			if err := yaml.Unmarshal([]byte(expanded), &override); err != nil {
				return nil, fmt.Errorf("parse override %s: %w", overrideFile, err)
			}

			config = mergeConfigs(config, &override)
		}
	}

	return config, nil
}

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Name != "" {
		result.Name = override.Name
	}
	if override.Version != "" {
		result.Version = override.Version
	}
	if override.Editor != "" {
		result.Editor = override.Editor
	}

	result.Linker = mergeLinker(result.Linker, override.Linker)
	result.Hooks = mergeHooks(result.Hooks, override.Hooks)
	result.TUI = mergeTUI(result.TUI, override.TUI)

	// Merge extensions
	if override.Extensions != nil {
		if result.Extensions == nil {
			result.Extensions = make(map[string]interface{})
		}
		for key, value := range override.Extensions {
			// If both base and override have the same extension key, merge them
			if baseValue, exists := result.Extensions[key]; exists {
				if baseMap, baseOk := baseValue.(map[string]interface{}); baseOk {
					if overrideMap, overrideOk := value.(map[string]interface{}); overrideOk {
						// Merge the maps
						mergedMap := make(map[string]interface{})
						for k, v := range baseMap {
							mergedMap[k] = v
						}
						for k, v := range overrideMap {
							mergedMap[k] = v
						}
						result.Extensions[key] = mergedMap
						continue
					}
				}
			}
			// Otherwise just replace
			result.Extensions[key] = value
		}
	}

	return &result
}

func mergeLinker(base, override *LinkerConfig) *LinkerConfig {
	if override == nil {
		return base
	}
	if base == nil {
		merged := *override
		return &merged
	}

	result := *base
	if override.SourceDir != "" {
		result.SourceDir = override.SourceDir
	}
	if override.DestDir != "" {
		result.DestDir = override.DestDir
	}
	if override.LocationsFile != "" {
		result.LocationsFile = override.LocationsFile
	}
	return &result
}

func mergeHooks(base, override *HooksConfig) *HooksConfig {
	if override == nil {
		return base
	}
	if base == nil {
		merged := *override
		return &merged
	}

	result := *base
	if override.Config != "" {
		result.Config = override.Config
	}
	if override.Runner != "" {
		result.Runner = override.Runner
	}
	return &result
}

func mergeTUI(base, override *TUIConfig) *TUIConfig {
	if override == nil {
		return base
	}
	if base == nil {
		merged := *override
		return &merged
	}

	result := *base
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.Icons != "" {
		result.Icons = override.Icons
	}
	return &result
}
