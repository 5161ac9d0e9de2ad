package configuration

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// SubstitutionContext holds the state for variable substitution
type SubstitutionContext struct {
	sopsCache map[string]map[string]interface{} // Cache for loaded SOPS files
}

// NewSubstitutionContext creates a new substitution context
func NewSubstitutionContext() *SubstitutionContext {
	return &SubstitutionContext{
		sopsCache: make(map[string]map[string]interface{}),
	}
}

// SubstituteVariables replaces environment variables and SOPS references in the input string
// Supports:
// - ${VAR_NAME} for environment variables
// - ${SOPS[path/to/file.yml].yaml.path.to.value} for SOPS encrypted files
func (ctx *SubstitutionContext) SubstituteVariables(input string) (string, error) {
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)

	result := input
	matches := pattern.FindAllStringSubmatch(input, -1)

	for _, match := range matches {
		if len(match) < 2 {
			continue
		}

		placeholder := match[0] // Full match: ${...}
		expression := match[1]  // Content inside: VAR_NAME or SOPS[...]...

		var value string
		var err error

		if strings.HasPrefix(expression, "SOPS[") {
			value, err = ctx.resolveSOPSReference(expression)
			if err != nil {
				return "", fmt.Errorf("failed to resolve SOPS reference %s: %w", placeholder, err)
			}
		} else {
			value = os.Getenv(expression)
			if value == "" {
				return "", fmt.Errorf("environment variable %s is not set", expression)
			}
		}

		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result, nil
}

// resolveSOPSReference resolves a SOPS reference like SOPS[file.yml].path.to.value
func (ctx *SubstitutionContext) resolveSOPSReference(expression string) (string, error) {
	// Format: SOPS[path/to/file.yml].yaml.path.to.value
	if !strings.HasPrefix(expression, "SOPS[") {
		return "", fmt.Errorf("invalid SOPS reference format: %s", expression)
	}

	closeBracketIdx := strings.Index(expression, "]")
	if closeBracketIdx == -1 {
		return "", fmt.Errorf("invalid SOPS reference format (missing ]): %s", expression)
	}

	filePath := expression[5:closeBracketIdx]
	yamlPath := ""

	if closeBracketIdx+1 < len(expression) {
		if expression[closeBracketIdx+1] != '.' {
			return "", fmt.Errorf("invalid SOPS reference format (expected . after ]): %s", expression)
		}
		yamlPath = expression[closeBracketIdx+2:]
	}

	if yamlPath == "" {
		return "", fmt.Errorf("SOPS reference must include a YAML path: %s", expression)
	}

	data, err := ctx.loadSOPSFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to load SOPS file %s: %w", filePath, err)
	}

	value, err := GetYAMLValue(data, yamlPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %s in SOPS file %s: %w", yamlPath, filePath, err)
	}

	return fmt.Sprintf("%v", value), nil
}

// loadSOPSFile loads and decrypts a SOPS file, with caching
func (ctx *SubstitutionContext) loadSOPSFile(filePath string) (map[string]interface{}, error) {
	if data, ok := ctx.sopsCache[filePath]; ok {
		return data, nil
	}

	data, err := DecryptSOPSFile(filePath)
	if err != nil {
		return nil, err
	}

	ctx.sopsCache[filePath] = data

	return data, nil
}

// SubstituteInConfig recursively substitutes variables in the entire config structure
func (ctx *SubstitutionContext) SubstituteInConfig(config *Config) error {
	for _, provider := range config.Providers {
		if err := ctx.substituteInProvider(provider); err != nil {
			return err
		}
	}

	for _, dependency := range config.Dependencies {
		if err := ctx.substituteInDependency(dependency); err != nil {
			return err
		}
	}

	if config.Actor != nil {
		if err := ctx.substituteInActor(config.Actor); err != nil {
			return err
		}
	}

	return nil
}

func (ctx *SubstitutionContext) substituteInProvider(provider *Provider) error {
	var err error

	if provider.BaseUrl != "" {
		provider.BaseUrl, err = ctx.SubstituteVariables(provider.BaseUrl)
		if err != nil {
			return fmt.Errorf("failed to substitute BaseUrl in provider %s: %w", provider.Name, err)
		}
	}

	if provider.Username != "" {
		provider.Username, err = ctx.SubstituteVariables(provider.Username)
		if err != nil {
			return fmt.Errorf("failed to substitute Username in provider %s: %w", provider.Name, err)
		}
	}

	if provider.Password != "" {
		provider.Password, err = ctx.SubstituteVariables(provider.Password)
		if err != nil {
			return fmt.Errorf("failed to substitute Password in provider %s: %w", provider.Name, err)
		}
	}

	if provider.Token != "" {
		provider.Token, err = ctx.SubstituteVariables(provider.Token)
		if err != nil {
			return fmt.Errorf("failed to substitute Token in provider %s: %w", provider.Name, err)
		}
	}

	return nil
}

func (ctx *SubstitutionContext) substituteInDependency(dependency *Dependency) error {
	var err error

	if dependency.URI != "" {
		dependency.URI, err = ctx.SubstituteVariables(dependency.URI)
		if err != nil {
			return fmt.Errorf("failed to substitute URI in dependency %s: %w", dependency.Name, err)
		}
	}

	return nil
}

func (ctx *SubstitutionContext) substituteInActor(actor *Actor) error {
	var err error

	if actor.Name != "" {
		actor.Name, err = ctx.SubstituteVariables(actor.Name)
		if err != nil {
			return fmt.Errorf("failed to substitute Name in actor: %w", err)
		}
	}

	if actor.Email != "" {
		actor.Email, err = ctx.SubstituteVariables(actor.Email)
		if err != nil {
			return fmt.Errorf("failed to substitute Email in actor: %w", err)
		}
	}

	if actor.Username != "" {
		actor.Username, err = ctx.SubstituteVariables(actor.Username)
		if err != nil {
			return fmt.Errorf("failed to substitute Username in actor: %w", err)
		}
	}

	if actor.Token != "" {
		actor.Token, err = ctx.SubstituteVariables(actor.Token)
		if err != nil {
			return fmt.Errorf("failed to substitute Token in actor: %w", err)
		}
	}

	return nil
}

// GetYAMLValue retrieves a value from a nested YAML structure using dot notation
// Example: "credentials.token" accesses data["credentials"]["token"]
func GetYAMLValue(data map[string]interface{}, path string) (interface{}, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	parts := strings.Split(path, ".")
	current := interface{}(data)

	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid path: empty segment at position %d", i)
		}

		switch v := current.(type) {
		case map[string]interface{}:
			value, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("path not found: %s (missing key '%s')", path, part)
			}
			current = value
		case map[interface{}]interface{}:
			// YAML sometimes uses interface{} keys
			value, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("path not found: %s (missing key '%s')", path, part)
			}
			current = value
		default:
			return nil, fmt.Errorf("path not found: %s (cannot traverse into non-map at '%s')", path, part)
		}
	}

	return current, nil
}

// DecryptSOPSFile decrypts a SOPS-encrypted YAML file and returns the parsed data
func DecryptSOPSFile(filePath string) (map[string]interface{}, error) {
	return DecryptSOPSFileWithLib(filePath)
}
