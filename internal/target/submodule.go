package target

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// SubmoduleTarget implements the TargetClient interface for git submodules.
// The dependency's file field is the submodule path relative to the
// repository root. Versions are tags in the submodule's own repository.
type SubmoduleTarget struct {
	repoDir       string
	submodulePath string
	dependency    *configuration.Dependency
}

// NewSubmoduleTarget creates a new submodule target
func NewSubmoduleTarget(repoDir string, dependency *configuration.Dependency) (*SubmoduleTarget, error) {
	if dependency.File == "" {
		return nil, fmt.Errorf("file (submodule path) is required for submodule target")
	}

	return &SubmoduleTarget{
		repoDir:       repoDir,
		submodulePath: dependency.File,
		dependency:    dependency,
	}, nil
}

// submoduleDir returns the absolute path of the submodule checkout
func (t *SubmoduleTarget) submoduleDir() string {
	if filepath.IsAbs(t.submodulePath) {
		return t.submodulePath
	}
	return filepath.Join(t.repoDir, t.submodulePath)
}

// ReadCurrentVersion resolves the pinned submodule commit to a tag.
// Falls back to the abbreviated commit SHA when no tag points at it.
func (t *SubmoduleTarget) ReadCurrentVersion() (string, error) {
	dir := t.submoduleDir()
	if _, err := os.Stat(dir); err != nil {
		return "", &FileNotFoundError{Path: dir}
	}

	cmd := exec.Command("git", "describe", "--tags", "--exact-match", "HEAD")
	cmd.Dir = dir

	output, err := cmd.Output()
	if err == nil {
		tag := strings.TrimSpace(string(output))
		log.Debug().
			Str("submodule", t.submodulePath).
			Str("tag", tag).
			Msg("Resolved submodule pin to tag")
		return tag, nil
	}

	// No tag points at the pinned commit, fall back to the SHA
	cmd = exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir

	output, err = cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve submodule pin for %s: %w", t.submodulePath, err)
	}

	sha := strings.TrimSpace(string(output))
	log.Debug().
		Str("submodule", t.submodulePath).
		Str("commit", sha).
		Msg("Submodule pin is not tagged, using commit SHA")

	return sha, nil
}

// WriteVersion checks out the given tag inside the submodule and stages
// the updated gitlink in the parent repository
func (t *SubmoduleTarget) WriteVersion(version string) error {
	dir := t.submoduleDir()

	log.Debug().
		Str("submodule", t.submodulePath).
		Str("version", version).
		Msg("Updating submodule pin")

	// Make sure the tag is available locally
	cmd := exec.Command("git", "fetch", "--tags", "origin")
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to fetch submodule tags: %w, output: %s", err, string(output))
	}

	cmd = exec.Command("git", "checkout", version)
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to checkout tag %s in submodule %s: %w, output: %s", version, t.submodulePath, err, string(output))
	}

	// Stage the new gitlink in the parent repository
	cmd = exec.Command("git", "add", t.submodulePath)
	cmd.Dir = t.repoDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stage submodule %s: %w, output: %s", t.submodulePath, err, string(output))
	}

	log.Debug().
		Str("submodule", t.submodulePath).
		Str("version", version).
		Msg("Updated submodule pin")

	return nil
}

// GetTargetInfo returns metadata about this target
func (t *SubmoduleTarget) GetTargetInfo() *TargetInfo {
	currentVersion, err := t.ReadCurrentVersion()
	if err != nil {
		log.Warn().Err(err).Str("submodule", t.submodulePath).Msg("Failed to read current version for target info")
	}
	return &TargetInfo{
		Name:         t.dependency.Display(),
		Type:         t.dependency.Target,
		File:         t.submodulePath,
		CurrentValue: currentVersion,
	}
}

// Validate checks that the submodule path is an initialized git checkout
func (t *SubmoduleTarget) Validate() error {
	dir := t.submoduleDir()

	info, err := os.Stat(dir)
	if err != nil {
		return &FileNotFoundError{Path: dir}
	}
	if !info.IsDir() {
		return &InvalidFileFormatError{
			File:   t.submodulePath,
			Reason: "submodule path is not a directory",
		}
	}

	// An initialized submodule has a .git entry (directory or gitfile)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return &InvalidFileFormatError{
			File:   t.submodulePath,
			Reason: "submodule is not initialized",
		}
	}

	return nil
}
