package target

import (
	"errors"
	"testing"

	"github.com/mxcd/bumper/internal/configuration"
)

func TestTargetFactory(t *testing.T) {
	factory := NewTargetFactory(t.TempDir())

	tests := []struct {
		name       string
		dependency *configuration.Dependency
		wantType   configuration.TargetType
		wantErr    bool
	}{
		{
			name: "version file target",
			dependency: &configuration.Dependency{
				Name:   "tool",
				Target: configuration.TargetTypeVersionFile,
				File:   "VERSION",
			},
			wantType: configuration.TargetTypeVersionFile,
		},
		{
			name: "script tag target",
			dependency: &configuration.Dependency{
				Name:             "htmx",
				Target:           configuration.TargetTypeScriptTag,
				File:             "index.html",
				ScriptTagPattern: `htmx\.org@([0-9.]+)/`,
			},
			wantType: configuration.TargetTypeScriptTag,
		},
		{
			name: "yaml field target",
			dependency: &configuration.Dependency{
				Name:     "app",
				Target:   configuration.TargetTypeYamlField,
				File:     "values.yaml",
				YamlPath: "image.tag",
			},
			wantType: configuration.TargetTypeYamlField,
		},
		{
			name: "submodule target",
			dependency: &configuration.Dependency{
				Name:   "lib",
				Target: configuration.TargetTypeSubmodule,
				File:   "vendor/lib",
			},
			wantType: configuration.TargetTypeSubmodule,
		},
		{
			name: "unsupported target type",
			dependency: &configuration.Dependency{
				Name:   "unknown",
				Target: configuration.TargetType("helm-chart"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := factory.CreateTarget(tt.dependency)

			if tt.wantErr {
				var unsupported *UnsupportedTargetTypeError
				if !errors.As(err, &unsupported) {
					t.Errorf("Expected UnsupportedTargetTypeError, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if client == nil {
				t.Fatal("Expected target client, got nil")
			}
		})
	}
}
