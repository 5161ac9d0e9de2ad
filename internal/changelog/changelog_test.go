package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mxcd/bumper/internal/configuration"
)

func newTestChangelog(t *testing.T, content string) (*Changelog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test changelog: %v", err)
		}
	}
	return New(&configuration.Changelog{File: path}), path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read changelog back: %v", err)
	}
	return string(content)
}

func TestAppendToExistingSection(t *testing.T) {
	content := `# Changelog

## [Unreleased]

### Dependencies
- Bump foo from 1.0.0 to 1.1.0

## [1.0.0] - 2024-01-01

### Added
- Initial release
`
	cl, path := newTestChangelog(t, content)

	if err := cl.Append("Dependencies", "Bump bar from 2.0.0 to 2.1.0"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := readBack(t, path)
	expected := `# Changelog

## [Unreleased]

### Dependencies
- Bump foo from 1.0.0 to 1.1.0
- Bump bar from 2.0.0 to 2.1.0

## [1.0.0] - 2024-01-01

### Added
- Initial release
`
	if got != expected {
		t.Errorf("Expected changelog:\n%s\ngot:\n%s", expected, got)
	}
}

func TestAppendCreatesSection(t *testing.T) {
	content := `# Changelog

## [Unreleased]

## [1.0.0] - 2024-01-01
`
	cl, path := newTestChangelog(t, content)

	if err := cl.Append("Dependencies", "Bump foo from 1.0.0 to 1.1.0"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := readBack(t, path)
	if !strings.Contains(got, "### Dependencies\n- Bump foo from 1.0.0 to 1.1.0") {
		t.Errorf("Expected new section with entry, got:\n%s", got)
	}
	// The section must live in the unreleased block, before the release heading
	if strings.Index(got, "### Dependencies") > strings.Index(got, "## [1.0.0]") {
		t.Errorf("Expected section before the release heading, got:\n%s", got)
	}
}

func TestAppendCreatesUnreleasedHeading(t *testing.T) {
	content := `## [1.0.0] - 2024-01-01

### Added
- Initial release
`
	cl, path := newTestChangelog(t, content)

	if err := cl.Append("Dependencies", "Bump foo from 1.0.0 to 1.1.0"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := readBack(t, path)
	if !strings.HasPrefix(got, "## [Unreleased]") {
		t.Errorf("Expected unreleased heading at the top, got:\n%s", got)
	}
	if !strings.Contains(got, "- Bump foo from 1.0.0 to 1.1.0") {
		t.Errorf("Expected entry in changelog, got:\n%s", got)
	}
}

func TestAppendCreatesMissingFile(t *testing.T) {
	cl, path := newTestChangelog(t, "")

	if err := cl.Append("Dependencies", "Bump foo from 1.0.0 to 1.1.0"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := readBack(t, path)
	if !strings.Contains(got, "## [Unreleased]") {
		t.Errorf("Expected unreleased heading in new file, got:\n%s", got)
	}
	if !strings.Contains(got, "- Bump foo from 1.0.0 to 1.1.0") {
		t.Errorf("Expected entry in new file, got:\n%s", got)
	}
}

func TestAppendIsIdempotent(t *testing.T) {
	cl, path := newTestChangelog(t, "")

	for i := 0; i < 3; i++ {
		if err := cl.Append("Dependencies", "Bump foo from 1.0.0 to 1.1.0"); err != nil {
			t.Fatalf("Unexpected error on append %d: %v", i, err)
		}
	}

	got := readBack(t, path)
	if count := strings.Count(got, "- Bump foo from 1.0.0 to 1.1.0"); count != 1 {
		t.Errorf("Expected exactly one entry, found %d:\n%s", count, got)
	}
}

func TestAppendCustomUnreleasedHeading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	content := "## Unreleased Changes\n\n## [1.0.0]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test changelog: %v", err)
	}

	cl := New(&configuration.Changelog{
		File:              path,
		UnreleasedHeading: "## Unreleased Changes",
	})

	if err := cl.Append("Dependencies", "Bump foo from 1.0.0 to 1.1.0"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := readBack(t, path)
	if strings.Count(got, "## Unreleased Changes") != 1 {
		t.Errorf("Expected the existing heading to be reused, got:\n%s", got)
	}
	if strings.Index(got, "- Bump foo") > strings.Index(got, "## [1.0.0]") {
		t.Errorf("Expected entry before release heading, got:\n%s", got)
	}
}
