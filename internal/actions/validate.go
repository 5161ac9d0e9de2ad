package actions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type ValidateOptions struct {
	ConfigPath   string
	OutputFormat string
}

func Validate(options *ValidateOptions) error {
	log.Debug().Str("config", options.ConfigPath).Msg("Loading configuration...")

	// Load configuration
	config, err := configuration.LoadConfiguration(options.ConfigPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return fmt.Errorf("configuration load error: %w", err)
	}

	log.Debug().Msg("Configuration loaded successfully")

	// Validate configuration
	validationResult := configuration.ValidateConfiguration(config)

	// Output results based on format
	if err := outputValidationResult(validationResult, options.OutputFormat); err != nil {
		log.Error().Err(err).Msg("Failed to output validation results")
		return fmt.Errorf("output error: %w", err)
	}

	if !validationResult.Valid {
		return fmt.Errorf("configuration validation failed")
	}

	log.Info().Msg("Configuration is valid")
	return nil
}

func outputValidationResult(result *configuration.ValidationResult, format string) error {
	switch format {
	case "table":
		return outputValidationTable(result)
	case "json":
		return outputValidationJSON(result)
	case "yaml":
		return outputValidationYAML(result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputValidationTable(result *configuration.ValidationResult) error {
	if result.Valid {
		fmt.Println("✓ Configuration is valid")
		return nil
	}

	fmt.Println("✗ Configuration validation failed:")
	fmt.Println()
	for _, err := range result.Errors {
		fmt.Printf("  • %s\n", err.Error())
	}
	fmt.Printf("\nTotal errors: %d\n", len(result.Errors))
	return nil
}

func outputValidationJSON(result *configuration.ValidationResult) error {
	output := map[string]interface{}{
		"valid":      result.Valid,
		"errorCount": len(result.Errors),
		"errors":     result.Errors,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputValidationYAML(result *configuration.ValidationResult) error {
	output := map[string]interface{}{
		"valid":      result.Valid,
		"errorCount": len(result.Errors),
		"errors":     result.Errors,
	}
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	return encoder.Encode(output)
}
