package resolver

import (
	"errors"
	"testing"

	"github.com/mxcd/bumper/internal/configuration"
)

func makeDependency(tags []string, pattern string, ordering configuration.Ordering) *configuration.Dependency {
	candidates := make([]*configuration.Candidate, 0, len(tags))
	for _, tag := range tags {
		candidates = append(candidates, &configuration.Candidate{Tag: tag})
	}
	return &configuration.Dependency{
		Name:       "test-dependency",
		TagPattern: pattern,
		Ordering:   ordering,
		Candidates: candidates,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		candidates     []string
		pattern        string
		exclude        string
		ordering       configuration.Ordering
		current        string
		expectedLatest string
		expectChanged  bool
		expectedType   UpdateType
	}{
		{
			name:           "empty pattern picks highest semver",
			candidates:     []string{"v1.2.0", "v1.3.0", "v1.2.5"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.2.0",
			expectedLatest: "v1.3.0",
			expectChanged:  true,
			expectedType:   UpdateTypeMinor,
		},
		{
			name:           "current already latest",
			candidates:     []string{"v1.3.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.3.0",
			expectedLatest: "v1.3.0",
			expectChanged:  false,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "order does not depend on candidate order",
			candidates:     []string{"v1.3.0", "v1.2.5", "v1.2.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.2.0",
			expectedLatest: "v1.3.0",
			expectChanged:  true,
			expectedType:   UpdateTypeMinor,
		},
		{
			name:           "pattern restricts selection",
			candidates:     []string{"v1.9.0", "v2.0.0-rc1", "v1.8.2"},
			pattern:        "^v1\\.",
			ordering:       configuration.OrderingSemantic,
			current:        "v1.8.2",
			expectedLatest: "v1.9.0",
			expectChanged:  true,
			expectedType:   UpdateTypeMinor,
		},
		{
			name:           "exclude pattern drops prereleases",
			candidates:     []string{"v2.0.0-rc1", "v1.9.0"},
			exclude:        "-rc",
			ordering:       configuration.OrderingSemantic,
			current:        "v1.9.0",
			expectedLatest: "v1.9.0",
			expectChanged:  false,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "major update classified",
			candidates:     []string{"v1.9.0", "v2.1.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.9.0",
			expectedLatest: "v2.1.0",
			expectChanged:  true,
			expectedType:   UpdateTypeMajor,
		},
		{
			name:           "patch update classified",
			candidates:     []string{"v1.2.3", "v1.2.4"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.2.3",
			expectedLatest: "v1.2.4",
			expectChanged:  true,
			expectedType:   UpdateTypePatch,
		},
		{
			name:           "prerelease orders below release",
			candidates:     []string{"v2.0.0-rc1", "v2.0.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.0.0",
			expectedLatest: "v2.0.0",
			expectChanged:  true,
			expectedType:   UpdateTypeMajor,
		},
		{
			name:           "unparsable tags order below parsable ones",
			candidates:     []string{"nightly", "v1.0.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.0.0",
			expectedLatest: "v1.0.0",
			expectChanged:  false,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "alphabetical ordering",
			candidates:     []string{"2024-01-15", "2024-03-01", "2024-02-10"},
			ordering:       configuration.OrderingAlphabetical,
			current:        "2024-02-10",
			expectedLatest: "2024-03-01",
			expectChanged:  true,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "downgrade classified as none",
			candidates:     []string{"v1.5.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v2.0.0",
			expectedLatest: "v1.5.0",
			expectChanged:  true,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "pattern-filtered downgrade classified as none",
			candidates:     []string{"v2.1.0", "v1.9.0", "v1.8.0"},
			pattern:        "^v1\\.",
			ordering:       configuration.OrderingSemantic,
			current:        "v2.0.0",
			expectedLatest: "v1.9.0",
			expectChanged:  true,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "patch downgrade classified as none",
			candidates:     []string{"v1.2.2"},
			ordering:       configuration.OrderingSemantic,
			current:        "v1.2.3",
			expectedLatest: "v1.2.2",
			expectChanged:  true,
			expectedType:   UpdateTypeNone,
		},
		{
			name:           "current missing from candidates still bumps",
			candidates:     []string{"v1.1.0", "v1.2.0"},
			ordering:       configuration.OrderingSemantic,
			current:        "v0.9.0",
			expectedLatest: "v1.2.0",
			expectChanged:  true,
			expectedType:   UpdateTypeMajor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dependency := makeDependency(tt.candidates, tt.pattern, tt.ordering)
			dependency.ExcludePattern = tt.exclude

			outcome, err := Resolve(dependency, tt.current)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if outcome.Original != tt.current {
				t.Errorf("Expected original %q, got %q", tt.current, outcome.Original)
			}
			if outcome.Latest != tt.expectedLatest {
				t.Errorf("Expected latest %q, got %q", tt.expectedLatest, outcome.Latest)
			}
			if outcome.Changed != tt.expectChanged {
				t.Errorf("Expected changed=%v, got %v", tt.expectChanged, outcome.Changed)
			}
			if outcome.UpdateType != tt.expectedType {
				t.Errorf("Expected update type %s, got %s", tt.expectedType, outcome.UpdateType)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	dependency := makeDependency([]string{"v1.2.0", "v1.3.0", "v1.2.5", "nightly", "v1.3.0-rc1"}, "", configuration.OrderingSemantic)

	first, err := Resolve(dependency, "v1.2.0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		outcome, err := Resolve(dependency, "v1.2.0")
		if err != nil {
			t.Fatalf("Unexpected error on run %d: %v", i, err)
		}
		if *outcome != *first {
			t.Fatalf("Resolve is not deterministic: run %d returned %+v, first run %+v", i, outcome, first)
		}
	}
}

func TestResolve_NoMatchingVersion(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		pattern    string
	}{
		{
			name:       "no candidates at all",
			candidates: nil,
		},
		{
			name:       "pattern matches nothing",
			candidates: []string{"v1.0.0", "v1.1.0"},
			pattern:    "^release-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dependency := makeDependency(tt.candidates, tt.pattern, configuration.OrderingSemantic)

			_, err := Resolve(dependency, "v1.0.0")
			if err == nil {
				t.Fatal("Expected error but got none")
			}

			var noMatch *NoMatchingVersionError
			if !errors.As(err, &noMatch) {
				t.Errorf("Expected NoMatchingVersionError, got %T: %v", err, err)
			}
		})
	}
}

func TestResolve_InvalidPattern(t *testing.T) {
	dependency := makeDependency([]string{"v1.0.0"}, "[invalid", configuration.OrderingSemantic)

	_, err := Resolve(dependency, "v1.0.0")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var invalid *InvalidPatternError
	if !errors.As(err, &invalid) {
		t.Errorf("Expected InvalidPatternError, got %T: %v", err, err)
	}
}

func TestResolve_UnknownOrdering(t *testing.T) {
	dependency := makeDependency([]string{"v1.0.0"}, "", configuration.Ordering("chronological"))

	_, err := Resolve(dependency, "v1.0.0")
	if err == nil {
		t.Fatal("Expected error but got none")
	}

	var unknown *UnknownOrderingError
	if !errors.As(err, &unknown) {
		t.Errorf("Expected UnknownOrderingError, got %T: %v", err, err)
	}
}

func TestNiceTag(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{"v1.2.3", "1.2.3"},
		{"V1.2.3", "1.2.3"},
		{"1.2.3", "1.2.3"},
		{"release-1", "release-1"},
	}

	for _, tt := range tests {
		if got := NiceTag(tt.tag); got != tt.expected {
			t.Errorf("NiceTag(%q) = %q, expected %q", tt.tag, got, tt.expected)
		}
	}
}

func TestParseSemver(t *testing.T) {
	tests := []struct {
		version string
		major   int
		minor   int
		patch   int
	}{
		{"v1.2.3", 1, 2, 3},
		{"1.2.3-beta1", 1, 2, 3},
		{"2.0", 2, 0, 0},
		{"nightly", 0, 0, 0},
	}

	for _, tt := range tests {
		major, minor, patch := ParseSemver(tt.version)
		if major != tt.major || minor != tt.minor || patch != tt.patch {
			t.Errorf("ParseSemver(%q) = (%d,%d,%d), expected (%d,%d,%d)",
				tt.version, major, minor, patch, tt.major, tt.minor, tt.patch)
		}
	}
}
