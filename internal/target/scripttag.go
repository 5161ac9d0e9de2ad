package target

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// ScriptTagTarget implements the TargetClient interface for files that
// embed a version inside arbitrary text, located by a regex with exactly
// one capture group (e.g. a <script> tag in an HTML file)
type ScriptTagTarget struct {
	file       string
	dependency *configuration.Dependency
	pattern    *regexp.Regexp
}

// NewScriptTagTarget creates a new script-tag target
func NewScriptTagTarget(file string, dependency *configuration.Dependency) (*ScriptTagTarget, error) {
	if dependency.ScriptTagPattern == "" {
		return nil, fmt.Errorf("scriptTagPattern is required for script-tag target")
	}

	pattern, err := regexp.Compile(dependency.ScriptTagPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid scriptTagPattern '%s': %w", dependency.ScriptTagPattern, err)
	}
	if pattern.NumSubexp() != 1 {
		return nil, fmt.Errorf("scriptTagPattern '%s' must contain exactly one capture group, got %d", dependency.ScriptTagPattern, pattern.NumSubexp())
	}

	return &ScriptTagTarget{
		file:       file,
		dependency: dependency,
		pattern:    pattern,
	}, nil
}

func (t *ScriptTagTarget) readFile() (string, error) {
	content, err := os.ReadFile(t.file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &FileNotFoundError{Path: t.file}
		}
		return "", fmt.Errorf("failed to read file %s: %w", t.file, err)
	}
	return string(content), nil
}

// ReadCurrentVersion returns the capture group of the first pattern match
func (t *ScriptTagTarget) ReadCurrentVersion() (string, error) {
	content, err := t.readFile()
	if err != nil {
		return "", err
	}

	match := t.pattern.FindStringSubmatch(content)
	if match == nil {
		return "", &PatternNotFoundError{
			Pattern: t.dependency.ScriptTagPattern,
			File:    t.file,
		}
	}

	log.Debug().
		Str("file", t.file).
		Str("version", match[1]).
		Msg("Read current version from script tag")

	return match[1], nil
}

// WriteVersion replaces the capture group of every pattern match with the
// new version, leaving the surrounding text untouched
func (t *ScriptTagTarget) WriteVersion(version string) error {
	content, err := t.readFile()
	if err != nil {
		return err
	}

	matches := t.pattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return &PatternNotFoundError{
			Pattern: t.dependency.ScriptTagPattern,
			File:    t.file,
		}
	}

	// Rebuild the content, swapping out each capture group.
	// Matches are processed in order, so we copy the text between the
	// previous group end and the next group start verbatim.
	var builder strings.Builder
	lastEnd := 0
	for _, match := range matches {
		groupStart, groupEnd := match[2], match[3]
		builder.WriteString(content[lastEnd:groupStart])
		builder.WriteString(version)
		lastEnd = groupEnd
	}
	builder.WriteString(content[lastEnd:])

	if err := os.WriteFile(t.file, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", t.file, err)
	}

	log.Debug().
		Str("file", t.file).
		Str("version", version).
		Int("occurrences", len(matches)).
		Msg("Wrote new version to script tag")

	return nil
}

// GetTargetInfo returns metadata about this target
func (t *ScriptTagTarget) GetTargetInfo() *TargetInfo {
	currentVersion, err := t.ReadCurrentVersion()
	if err != nil {
		log.Warn().Err(err).Str("file", t.file).Msg("Failed to read current version for target info")
	}
	return &TargetInfo{
		Name:         t.dependency.Display(),
		Type:         t.dependency.Target,
		File:         t.file,
		CurrentValue: currentVersion,
	}
}

// Validate checks if the file exists and the pattern matches at least once
func (t *ScriptTagTarget) Validate() error {
	_, err := t.ReadCurrentVersion()
	return err
}
