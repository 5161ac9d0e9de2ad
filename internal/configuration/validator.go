package configuration

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the results of configuration validation
type ValidationResult struct {
	Valid  bool
	Errors []*ValidationError
}

// AddError adds a validation error to the result
func (r *ValidationResult) AddError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfiguration performs validation on the configuration
func ValidateConfiguration(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]*ValidationError, 0),
	}

	providerNames := make(map[string]bool)
	for i, provider := range config.Providers {
		fieldPrefix := fmt.Sprintf("providers[%d]", i)

		if strings.TrimSpace(provider.Name) == "" {
			result.AddError(fmt.Sprintf("%s.name", fieldPrefix), "provider name cannot be empty")
		} else {
			if providerNames[provider.Name] {
				result.AddError(fmt.Sprintf("%s.name", fieldPrefix), fmt.Sprintf("duplicate provider name: %s", provider.Name))
			}
			providerNames[provider.Name] = true
		}

		if !isValidProviderType(provider.Type) {
			result.AddError(fmt.Sprintf("%s.type", fieldPrefix), fmt.Sprintf("invalid provider type: %s", provider.Type))
		}

		if provider.AuthType != "" && !isValidAuthType(provider.AuthType) {
			result.AddError(fmt.Sprintf("%s.authType", fieldPrefix), fmt.Sprintf("invalid auth type: %s", provider.AuthType))
		}

		if provider.AuthType == ProviderAuthTypeBasic {
			if strings.TrimSpace(provider.Username) == "" {
				result.AddError(fmt.Sprintf("%s.username", fieldPrefix), "username is required for basic auth")
			}
			if strings.TrimSpace(provider.Password) == "" {
				result.AddError(fmt.Sprintf("%s.password", fieldPrefix), "password is required for basic auth")
			}
		}

		if provider.AuthType == ProviderAuthTypeToken {
			if strings.TrimSpace(provider.Token) == "" {
				result.AddError(fmt.Sprintf("%s.token", fieldPrefix), "token is required for token auth")
			}
		}
	}

	dependencyNames := make(map[string]bool)
	for i, dependency := range config.Dependencies {
		fieldPrefix := fmt.Sprintf("dependencies[%d]", i)

		if strings.TrimSpace(dependency.Name) == "" {
			result.AddError(fmt.Sprintf("%s.name", fieldPrefix), "dependency name cannot be empty")
		} else {
			if dependencyNames[dependency.Name] {
				result.AddError(fmt.Sprintf("%s.name", fieldPrefix), fmt.Sprintf("duplicate dependency name: %s", dependency.Name))
			}
			dependencyNames[dependency.Name] = true
		}

		if strings.TrimSpace(dependency.Provider) == "" {
			result.AddError(fmt.Sprintf("%s.provider", fieldPrefix), "provider reference cannot be empty")
		} else if len(config.Providers) > 0 && !providerNames[dependency.Provider] {
			result.AddError(fmt.Sprintf("%s.provider", fieldPrefix), fmt.Sprintf("unknown provider: %s", dependency.Provider))
		}

		if strings.TrimSpace(dependency.URI) == "" {
			result.AddError(fmt.Sprintf("%s.uri", fieldPrefix), "uri cannot be empty")
		}

		if !isValidSourceType(dependency.Source) {
			result.AddError(fmt.Sprintf("%s.source", fieldPrefix), fmt.Sprintf("invalid source type: %s", dependency.Source))
		}

		if !isValidTargetType(dependency.Target) {
			result.AddError(fmt.Sprintf("%s.target", fieldPrefix), fmt.Sprintf("invalid target type: %s", dependency.Target))
		}

		if strings.TrimSpace(dependency.File) == "" {
			result.AddError(fmt.Sprintf("%s.file", fieldPrefix), "file cannot be empty")
		}

		// The ordering has to be spelled out; picking a comparison for the
		// operator would make the latest-tag selection depend on a guess
		if dependency.Ordering == "" {
			result.AddError(fmt.Sprintf("%s.ordering", fieldPrefix), "ordering must be set explicitly (semantic or alphabetical)")
		} else if !isValidOrdering(dependency.Ordering) {
			result.AddError(fmt.Sprintf("%s.ordering", fieldPrefix), fmt.Sprintf("invalid ordering: %s", dependency.Ordering))
		}

		if dependency.PRStrategy != "" && !isValidPRStrategy(dependency.PRStrategy) {
			result.AddError(fmt.Sprintf("%s.prStrategy", fieldPrefix), fmt.Sprintf("invalid PR strategy: %s", dependency.PRStrategy))
		}

		if dependency.Target == TargetTypeScriptTag {
			validateScriptTagPattern(result, fieldPrefix, dependency.ScriptTagPattern)
		}

		if dependency.Target == TargetTypeYamlField && strings.TrimSpace(dependency.YamlPath) == "" {
			result.AddError(fmt.Sprintf("%s.yamlPath", fieldPrefix), "yamlPath is required for yaml-field targets")
		}

		if dependency.TagPattern != "" {
			if _, err := regexp.Compile(dependency.TagPattern); err != nil {
				result.AddError(fmt.Sprintf("%s.tagPattern", fieldPrefix), fmt.Sprintf("invalid regex: %v", err))
			}
		}

		if dependency.ExcludePattern != "" {
			if _, err := regexp.Compile(dependency.ExcludePattern); err != nil {
				result.AddError(fmt.Sprintf("%s.excludePattern", fieldPrefix), fmt.Sprintf("invalid regex: %v", err))
			}
		}
	}

	if config.Actor != nil {
		if strings.TrimSpace(config.Actor.Name) == "" {
			result.AddError("actor.name", "actor name cannot be empty")
		}
		if strings.TrimSpace(config.Actor.Email) == "" {
			result.AddError("actor.email", "actor email cannot be empty")
		}
	}

	if config.Changelog != nil && strings.TrimSpace(config.Changelog.File) == "" {
		result.AddError("changelog.file", "changelog file cannot be empty")
	}

	return result
}

// validateScriptTagPattern checks that the script tag regex compiles and
// carries exactly one capture group for the embedded tag
func validateScriptTagPattern(result *ValidationResult, fieldPrefix, pattern string) {
	field := fmt.Sprintf("%s.scriptTagPattern", fieldPrefix)

	if strings.TrimSpace(pattern) == "" {
		result.AddError(field, "scriptTagPattern is required for script-tag targets")
		return
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		result.AddError(field, fmt.Sprintf("invalid regex: %v", err))
		return
	}

	if re.NumSubexp() != 1 {
		result.AddError(field, fmt.Sprintf("scriptTagPattern must contain exactly one capture group, found %d", re.NumSubexp()))
	}
}

func isValidProviderType(t ProviderType) bool {
	switch t {
	case ProviderTypeGitHub, ProviderTypeDocker:
		return true
	}
	return false
}

func isValidAuthType(t ProviderAuthType) bool {
	switch t {
	case ProviderAuthTypeNone, ProviderAuthTypeBasic, ProviderAuthTypeToken:
		return true
	}
	return false
}

func isValidSourceType(t SourceType) bool {
	switch t {
	case SourceTypeGitTag, SourceTypeGitRelease, SourceTypeDockerImage:
		return true
	}
	return false
}

func isValidTargetType(t TargetType) bool {
	switch t {
	case TargetTypeSubmodule, TargetTypeVersionFile, TargetTypeScriptTag, TargetTypeYamlField:
		return true
	}
	return false
}

func isValidOrdering(o Ordering) bool {
	switch o {
	case OrderingSemantic, OrderingAlphabetical:
		return true
	}
	return false
}

func isValidPRStrategy(s PRStrategy) bool {
	switch s {
	case PRStrategyCreate, PRStrategyUpdate:
		return true
	}
	return false
}
