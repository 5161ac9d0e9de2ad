package configuration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigurationSingleFile(t *testing.T) {
	content := `providers:
  - name: github
    type: github
dependencies:
  - name: traefik
    provider: github
    uri: https://github.com/traefik/traefik
    source: git-tag
    target: version-file
    file: VERSION
    ordering: semantic
actor:
  name: bump-bot
  email: bump-bot@example.com
  username: bump-bot
`
	path := writeConfigFile(t, t.TempDir(), "config.yml", content)

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(config.Providers) != 1 || config.Providers[0].Name != "github" {
		t.Errorf("Expected one provider named 'github', got %+v", config.Providers)
	}
	if len(config.Dependencies) != 1 {
		t.Fatalf("Expected one dependency, got %d", len(config.Dependencies))
	}

	dependency := config.Dependencies[0]
	if dependency.Name != "traefik" {
		t.Errorf("Expected dependency name 'traefik', got %q", dependency.Name)
	}
	if dependency.Source != SourceTypeGitTag {
		t.Errorf("Expected source 'git-tag', got %q", dependency.Source)
	}
	if dependency.Ordering != OrderingSemantic {
		t.Errorf("Expected ordering 'semantic', got %q", dependency.Ordering)
	}
	if config.Actor == nil || config.Actor.Email != "bump-bot@example.com" {
		t.Errorf("Expected actor email, got %+v", config.Actor)
	}
}

func TestLoadConfigurationDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "providers.yml", `providers:
  - name: github
    type: github
  - name: docker
    type: docker
`)
	writeConfigFile(t, dir, "dependencies.yml", `dependencies:
  - name: traefik
    provider: docker
    uri: traefik
    source: docker-image
    target: yaml-field
    file: values.yaml
    yamlPath: image.tag
    ordering: semantic
`)

	config, err := LoadConfiguration(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(config.Providers) != 2 {
		t.Errorf("Expected 2 merged providers, got %d", len(config.Providers))
	}
	if len(config.Dependencies) != 1 {
		t.Errorf("Expected 1 merged dependency, got %d", len(config.Dependencies))
	}
}

func TestLoadConfigurationDuplicateDependency(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "a.yml", `dependencies:
  - name: traefik
    provider: github
    uri: https://github.com/traefik/traefik
    source: git-tag
    target: version-file
    file: VERSION
    ordering: semantic
`)
	writeConfigFile(t, dir, "b.yml", `dependencies:
  - name: traefik
    provider: github
    uri: https://github.com/traefik/traefik
    source: git-tag
    target: version-file
    file: VERSION
    ordering: semantic
`)

	_, err := LoadConfiguration(dir)
	if err == nil {
		t.Fatal("Expected error for duplicate dependency name")
	}
	if !strings.Contains(err.Error(), "duplicate dependency name") {
		t.Errorf("Expected duplicate dependency error, got %v", err)
	}
}

func TestLoadConfigurationEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BUMPER_TOKEN", "secret-token")

	content := `providers:
  - name: github
    type: github
    authType: token
    token: ${TEST_BUMPER_TOKEN}
`
	path := writeConfigFile(t, t.TempDir(), "config.yml", content)

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if config.Providers[0].Token != "secret-token" {
		t.Errorf("Expected substituted token, got %q", config.Providers[0].Token)
	}
}

func TestLoadConfigurationMissingEnvVariable(t *testing.T) {
	content := `providers:
  - name: github
    type: github
    authType: token
    token: ${TEST_BUMPER_UNSET_VARIABLE}
`
	path := writeConfigFile(t, t.TempDir(), "config.yml", content)

	_, err := LoadConfiguration(path)
	if err == nil {
		t.Fatal("Expected error for unset environment variable")
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("Expected error for missing configuration file")
	}
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "config.yml", "providers: [invalid")

	_, err := LoadConfiguration(path)
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}
