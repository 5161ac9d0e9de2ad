package target

import (
	"path/filepath"

	"github.com/mxcd/bumper/internal/configuration"
)

// TargetClient defines the interface for all target implementations
type TargetClient interface {
	// ReadCurrentVersion reads the currently pinned version from the target
	ReadCurrentVersion() (string, error)

	// WriteVersion writes a new version to the target
	WriteVersion(version string) error

	// GetTargetInfo returns metadata about this target
	GetTargetInfo() *TargetInfo

	// Validate checks if the target is valid and accessible
	Validate() error
}

// TargetInfo contains metadata about a target
type TargetInfo struct {
	Name         string
	Type         configuration.TargetType
	File         string
	CurrentValue string
}

// TargetFactory creates target clients for dependencies, resolving target
// file paths relative to the repository root
type TargetFactory struct {
	repoDir string
}

// NewTargetFactory creates a new target factory rooted at the given
// repository directory
func NewTargetFactory(repoDir string) *TargetFactory {
	return &TargetFactory{
		repoDir: repoDir,
	}
}

// CreateTarget creates a target client for the dependency's configured
// target type
func (f *TargetFactory) CreateTarget(dependency *configuration.Dependency) (TargetClient, error) {
	switch dependency.Target {
	case configuration.TargetTypeSubmodule:
		return NewSubmoduleTarget(f.repoDir, dependency)
	case configuration.TargetTypeVersionFile:
		return NewVersionFileTarget(f.resolvePath(dependency.File), dependency)
	case configuration.TargetTypeScriptTag:
		return NewScriptTagTarget(f.resolvePath(dependency.File), dependency)
	case configuration.TargetTypeYamlField:
		return NewYamlFieldTarget(f.resolvePath(dependency.File), dependency)
	default:
		return nil, &UnsupportedTargetTypeError{Type: dependency.Target}
	}
}

func (f *TargetFactory) resolvePath(file string) string {
	if f.repoDir == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(f.repoDir, file)
}
