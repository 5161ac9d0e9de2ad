package resolver

import (
	"fmt"

	"github.com/mxcd/bumper/internal/configuration"
)

// NoMatchingVersionError is returned when the tag filter matched none of the
// scraped candidates
type NoMatchingVersionError struct {
	Dependency string
	Pattern    string
	Candidates int
}

func (e *NoMatchingVersionError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("no candidate versions available for dependency %s", e.Dependency)
	}
	return fmt.Sprintf("no version matching pattern %q for dependency %s (%d candidates)", e.Pattern, e.Dependency, e.Candidates)
}

// InvalidPatternError is returned when a configured tag filter regex does
// not compile
type InvalidPatternError struct {
	Dependency string
	Pattern    string
	Err        error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid tag pattern %q for dependency %s: %v", e.Pattern, e.Dependency, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// UnknownOrderingError is returned when the configured ordering does not
// name a known comparison
type UnknownOrderingError struct {
	Ordering configuration.Ordering
}

func (e *UnknownOrderingError) Error() string {
	return fmt.Sprintf("unknown version ordering: %q (must be semantic or alphabetical)", e.Ordering)
}
