package target

import (
	"fmt"

	"github.com/mxcd/bumper/internal/configuration"
)

// UnsupportedTargetTypeError is returned when an unsupported target type is encountered
type UnsupportedTargetTypeError struct {
	Type configuration.TargetType
}

func (e *UnsupportedTargetTypeError) Error() string {
	return fmt.Sprintf("unsupported target type: %s", e.Type)
}

// FileNotFoundError is returned when a target file is not found
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("target file not found: %s", e.Path)
}

// PatternNotFoundError is returned when a script tag pattern has no match in the target file
type PatternNotFoundError struct {
	Pattern string
	File    string
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("pattern '%s' not found in file: %s", e.Pattern, e.File)
}

// YamlFieldNotFoundError is returned when a YAML path does not exist in the target file
type YamlFieldNotFoundError struct {
	Path string
	File string
}

func (e *YamlFieldNotFoundError) Error() string {
	return fmt.Sprintf("yaml path '%s' not found in file: %s", e.Path, e.File)
}

// InvalidFileFormatError is returned when a target file has an invalid format
type InvalidFileFormatError struct {
	File   string
	Reason string
}

func (e *InvalidFileFormatError) Error() string {
	return fmt.Sprintf("invalid file format '%s': %s", e.File, e.Reason)
}
