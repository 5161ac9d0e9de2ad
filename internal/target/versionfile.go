package target

import (
	"fmt"
	"os"
	"strings"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// VersionFileTarget implements the TargetClient interface for plain text
// files whose entire content is a single version string
type VersionFileTarget struct {
	file       string
	dependency *configuration.Dependency
}

// NewVersionFileTarget creates a new version-file target
func NewVersionFileTarget(file string, dependency *configuration.Dependency) (*VersionFileTarget, error) {
	return &VersionFileTarget{
		file:       file,
		dependency: dependency,
	}, nil
}

// ReadCurrentVersion reads the version string from the file, trimming
// surrounding whitespace
func (t *VersionFileTarget) ReadCurrentVersion() (string, error) {
	content, err := os.ReadFile(t.file)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &FileNotFoundError{Path: t.file}
		}
		return "", fmt.Errorf("failed to read file %s: %w", t.file, err)
	}

	version := strings.TrimSpace(string(content))
	if version == "" {
		return "", &InvalidFileFormatError{
			File:   t.file,
			Reason: "version file is empty",
		}
	}
	if strings.ContainsAny(version, "\r\n") {
		return "", &InvalidFileFormatError{
			File:   t.file,
			Reason: "version file must contain a single line",
		}
	}

	log.Debug().
		Str("file", t.file).
		Str("version", version).
		Msg("Read current version from version file")

	return version, nil
}

// WriteVersion replaces the file content with the new version and a
// trailing newline
func (t *VersionFileTarget) WriteVersion(version string) error {
	if err := os.WriteFile(t.file, []byte(version+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", t.file, err)
	}

	log.Debug().
		Str("file", t.file).
		Str("version", version).
		Msg("Wrote new version to version file")

	return nil
}

// GetTargetInfo returns metadata about this target
func (t *VersionFileTarget) GetTargetInfo() *TargetInfo {
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

// Validate checks if the target is valid and accessible
func (t *VersionFileTarget) Validate() error {
	_, err := t.ReadCurrentVersion()
	return err
}
