package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadConfiguration reads and parses the configuration from the given path.
// If the path is a directory, it loads all .yml/.yaml files within it and
// merges them. Environment variable and SOPS substitution is applied to the
// merged result.
func LoadConfiguration(configPath string) (*Config, error) {
	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access configuration path: %w", err)
	}

	var config *Config
	if fileInfo.IsDir() {
		config, err = loadConfigurationFromDirectory(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		config, err = loadSingleConfigurationFile(configPath)
		if err != nil {
			return nil, err
		}
	}

	ctx := NewSubstitutionContext()
	if err := ctx.SubstituteInConfig(config); err != nil {
		return nil, fmt.Errorf("failed to substitute variables: %w", err)
	}

	return config, nil
}

// loadSingleConfigurationFile reads and parses a single configuration file
func loadSingleConfigurationFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration YAML: %w", err)
	}

	return &config, nil
}

// loadConfigurationFromDirectory loads all .yml files from a directory and merges them
func loadConfigurationFromDirectory(dirPath string) (*Config, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration directory: %w", err)
	}

	var configFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			configFiles = append(configFiles, filepath.Join(dirPath, name))
		}
	}

	if len(configFiles) == 0 {
		return nil, fmt.Errorf("no .yml or .yaml files found in directory: %s", dirPath)
	}

	log.Debug().
		Str("directory", dirPath).
		Int("fileCount", len(configFiles)).
		Msg("Loading configuration from directory")

	var configs []*Config
	for _, filePath := range configFiles {
		config, err := loadSingleConfigurationFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		configs = append(configs, config)
	}

	mergedConfig, err := mergeConfigurations(configs)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configurations: %w", err)
	}

	return mergedConfig, nil
}

// mergeConfigurations merges multiple Config objects into a single Config.
// It concatenates the provider and dependency lists and checks for duplicate
// names; the changelog and actor settings are taken from the last file that
// defines them.
func mergeConfigurations(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return &Config{}, nil
	}

	if len(configs) == 1 {
		return configs[0], nil
	}

	merged := &Config{
		Providers:    make([]*Provider, 0),
		Dependencies: make([]*Dependency, 0),
	}

	providerNames := make(map[string]bool)
	dependencyNames := make(map[string]bool)

	for _, config := range configs {
		for _, provider := range config.Providers {
			if providerNames[provider.Name] {
				return nil, fmt.Errorf("duplicate provider name: %s", provider.Name)
			}
			providerNames[provider.Name] = true
			merged.Providers = append(merged.Providers, provider)
		}

		for _, dependency := range config.Dependencies {
			if dependencyNames[dependency.Name] {
				return nil, fmt.Errorf("duplicate dependency name: %s", dependency.Name)
			}
			dependencyNames[dependency.Name] = true
			merged.Dependencies = append(merged.Dependencies, dependency)
		}

		if config.Changelog != nil {
			merged.Changelog = config.Changelog
		}

		if config.Actor != nil {
			merged.Actor = config.Actor
		}
	}

	return merged, nil
}
