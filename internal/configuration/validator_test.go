package configuration

import (
	"strings"
	"testing"
)

func validTestConfig() *Config {
	return &Config{
		Providers: []*Provider{
			{Name: "github", Type: ProviderTypeGitHub},
			{Name: "docker", Type: ProviderTypeDocker},
		},
		Dependencies: []*Dependency{
			{
				Name:     "traefik",
				Provider: "github",
				URI:      "https://github.com/traefik/traefik",
				Source:   SourceTypeGitTag,
				Target:   TargetTypeVersionFile,
				File:     "VERSION",
				Ordering: OrderingSemantic,
			},
		},
		Actor: &Actor{
			Name:  "bump-bot",
			Email: "bump-bot@example.com",
		},
	}
}

func hasErrorContaining(result *ValidationResult, substring string) bool {
	for _, err := range result.Errors {
		if strings.Contains(err.Error(), substring) {
			return true
		}
	}
	return false
}

func TestValidateConfigurationValid(t *testing.T) {
	result := ValidateConfiguration(validTestConfig())
	if !result.Valid {
		t.Errorf("Expected valid configuration, got errors: %v", result.Errors)
	}
}

func TestValidateConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty provider name",
			mutate: func(c *Config) {
				c.Providers[0].Name = ""
			},
			wantErr: "provider name cannot be empty",
		},
		{
			name: "invalid provider type",
			mutate: func(c *Config) {
				c.Providers[0].Type = "gitlab"
			},
			wantErr: "invalid provider type",
		},
		{
			name: "basic auth without credentials",
			mutate: func(c *Config) {
				c.Providers[0].AuthType = ProviderAuthTypeBasic
			},
			wantErr: "username is required for basic auth",
		},
		{
			name: "token auth without token",
			mutate: func(c *Config) {
				c.Providers[0].AuthType = ProviderAuthTypeToken
			},
			wantErr: "token is required for token auth",
		},
		{
			name: "unknown provider reference",
			mutate: func(c *Config) {
				c.Dependencies[0].Provider = "gitlab"
			},
			wantErr: "unknown provider",
		},
		{
			name: "empty uri",
			mutate: func(c *Config) {
				c.Dependencies[0].URI = ""
			},
			wantErr: "uri cannot be empty",
		},
		{
			name: "invalid source type",
			mutate: func(c *Config) {
				c.Dependencies[0].Source = "svn-tag"
			},
			wantErr: "invalid source type",
		},
		{
			name: "invalid target type",
			mutate: func(c *Config) {
				c.Dependencies[0].Target = "helm-chart"
			},
			wantErr: "invalid target type",
		},
		{
			name: "missing ordering",
			mutate: func(c *Config) {
				c.Dependencies[0].Ordering = ""
			},
			wantErr: "ordering must be set explicitly",
		},
		{
			name: "invalid ordering",
			mutate: func(c *Config) {
				c.Dependencies[0].Ordering = "chronological"
			},
			wantErr: "invalid ordering",
		},
		{
			name: "invalid PR strategy",
			mutate: func(c *Config) {
				c.Dependencies[0].PRStrategy = "rebase"
			},
			wantErr: "invalid PR strategy",
		},
		{
			name: "script tag without pattern",
			mutate: func(c *Config) {
				c.Dependencies[0].Target = TargetTypeScriptTag
			},
			wantErr: "scriptTagPattern is required",
		},
		{
			name: "script tag pattern without capture group",
			mutate: func(c *Config) {
				c.Dependencies[0].Target = TargetTypeScriptTag
				c.Dependencies[0].ScriptTagPattern = `htmx@[0-9.]+`
			},
			wantErr: "exactly one capture group",
		},
		{
			name: "script tag pattern with two capture groups",
			mutate: func(c *Config) {
				c.Dependencies[0].Target = TargetTypeScriptTag
				c.Dependencies[0].ScriptTagPattern = `(htmx)@([0-9.]+)`
			},
			wantErr: "exactly one capture group",
		},
		{
			name: "yaml field without path",
			mutate: func(c *Config) {
				c.Dependencies[0].Target = TargetTypeYamlField
			},
			wantErr: "yamlPath is required",
		},
		{
			name: "invalid tag pattern regex",
			mutate: func(c *Config) {
				c.Dependencies[0].TagPattern = `v[0-9`
			},
			wantErr: "invalid regex",
		},
		{
			name: "duplicate dependency names",
			mutate: func(c *Config) {
				duplicate := *c.Dependencies[0]
				c.Dependencies = append(c.Dependencies, &duplicate)
			},
			wantErr: "duplicate dependency name",
		},
		{
			name: "actor without email",
			mutate: func(c *Config) {
				c.Actor.Email = ""
			},
			wantErr: "actor email cannot be empty",
		},
		{
			name: "changelog without file",
			mutate: func(c *Config) {
				c.Changelog = &Changelog{}
			},
			wantErr: "changelog file cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)

			result := ValidateConfiguration(config)
			if result.Valid {
				t.Fatal("Expected validation to fail")
			}
			if !hasErrorContaining(result, tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestDependencyStrategyDefault(t *testing.T) {
	dependency := &Dependency{Name: "traefik"}
	if dependency.Strategy() != PRStrategyUpdate {
		t.Errorf("Expected default strategy 'update', got %q", dependency.Strategy())
	}

	dependency.PRStrategy = PRStrategyCreate
	if dependency.Strategy() != PRStrategyCreate {
		t.Errorf("Expected strategy 'create', got %q", dependency.Strategy())
	}
}

func TestDependencyDisplay(t *testing.T) {
	dependency := &Dependency{Name: "traefik"}
	if dependency.Display() != "traefik" {
		t.Errorf("Expected display 'traefik', got %q", dependency.Display())
	}

	dependency.DisplayName = "Traefik Proxy"
	if dependency.Display() != "Traefik Proxy" {
		t.Errorf("Expected display 'Traefik Proxy', got %q", dependency.Display())
	}
}
