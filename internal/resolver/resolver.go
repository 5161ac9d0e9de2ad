package resolver

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// UpdateType classifies the distance between the pinned and the latest tag
type UpdateType string

const (
	UpdateTypeMajor UpdateType = "major"
	UpdateTypeMinor UpdateType = "minor"
	UpdateTypePatch UpdateType = "patch"
	UpdateTypeNone  UpdateType = "none"
)

// Outcome is the result of resolving the latest matching tag for a
// dependency against its currently pinned tag
type Outcome struct {
	Dependency string
	Original   string
	Latest     string
	Changed    bool
	UpdateType UpdateType
}

// Nice returns the display form of the latest tag with the v/V prefix
// trimmed, for PR titles and changelog entries
func (o *Outcome) Nice() string {
	return NiceTag(o.Latest)
}

// NiceTag trims the v/V prefix from a tag
func NiceTag(tag string) string {
	trimmed := strings.TrimPrefix(tag, "v")
	return strings.TrimPrefix(trimmed, "V")
}

// Resolve filters the scraped candidate tags of the dependency, picks the
// maximum under the configured ordering and compares it against the
// currently pinned tag. It is pure: candidates are fetched by the scraper
// beforehand, and identical inputs always produce an identical outcome.
func Resolve(dependency *configuration.Dependency, current string) (*Outcome, error) {
	tags, err := filterCandidates(dependency)
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, &NoMatchingVersionError{
			Dependency: dependency.Name,
			Pattern:    dependency.TagPattern,
			Candidates: len(dependency.Candidates),
		}
	}

	latest, err := selectLatest(tags, dependency.Ordering)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Dependency: dependency.Name,
		Original:   current,
		Latest:     latest,
		Changed:    latest != current,
	}
	outcome.UpdateType = classifyUpdate(current, latest)

	log.Debug().
		Str("dependency", dependency.Name).
		Str("original", outcome.Original).
		Str("latest", outcome.Latest).
		Bool("changed", outcome.Changed).
		Str("updateType", string(outcome.UpdateType)).
		Msg("Resolved latest tag")

	return outcome, nil
}

// filterCandidates applies the tag and exclude patterns of the dependency.
// An empty pattern matches everything.
func filterCandidates(dependency *configuration.Dependency) ([]string, error) {
	var match, exclude *regexp.Regexp
	var err error

	if dependency.TagPattern != "" {
		match, err = regexp.Compile(dependency.TagPattern)
		if err != nil {
			return nil, &InvalidPatternError{Dependency: dependency.Name, Pattern: dependency.TagPattern, Err: err}
		}
	}

	if dependency.ExcludePattern != "" {
		exclude, err = regexp.Compile(dependency.ExcludePattern)
		if err != nil {
			return nil, &InvalidPatternError{Dependency: dependency.Name, Pattern: dependency.ExcludePattern, Err: err}
		}
	}

	tags := make([]string, 0, len(dependency.Candidates))
	for _, candidate := range dependency.Candidates {
		if match != nil && !match.MatchString(candidate.Tag) {
			continue
		}
		if exclude != nil && exclude.MatchString(candidate.Tag) {
			continue
		}
		tags = append(tags, candidate.Tag)
	}

	return tags, nil
}

// ref is a candidate tag with its parsed ordering key. Tags that do not
// parse as a version order below every tag that does.
type ref struct {
	raw    string
	semver *goversion.Version
}

// selectLatest returns the maximum tag under the requested ordering. The
// ordering must name one of the configured comparisons; there is no
// fallback guessing.
func selectLatest(tags []string, ordering configuration.Ordering) (string, error) {
	refs := make([]*ref, 0, len(tags))
	for _, tag := range tags {
		r := &ref{raw: tag}
		if ordering == configuration.OrderingSemantic {
			if v, err := goversion.NewVersion(tag); err == nil {
				r.semver = v
			}
		}
		refs = append(refs, r)
	}

	switch ordering {
	case configuration.OrderingSemantic:
		sort.Slice(refs, func(i, j int) bool {
			return semverLess(refs[j], refs[i])
		})
	case configuration.OrderingAlphabetical:
		sort.Slice(refs, func(i, j int) bool {
			return refs[i].raw > refs[j].raw
		})
	default:
		return "", &UnknownOrderingError{Ordering: ordering}
	}

	return refs[0].raw, nil
}

// semverLess is a strict total order: parsed versions compare by semantic
// precedence, ties and unparsable tags fall back to the raw string so any
// candidate set yields a deterministic maximum
func semverLess(a, b *ref) bool {
	if a.semver != nil && b.semver != nil {
		if c := a.semver.Compare(b.semver); c != 0 {
			return c < 0
		}
		return a.raw < b.raw
	}
	if a.semver == nil && b.semver != nil {
		return true
	}
	if a.semver != nil && b.semver == nil {
		return false
	}
	return a.raw < b.raw
}

// ParseSemver extracts major, minor, and patch version components from a
// version string. It handles common prefixes (v/V) and pre-release suffixes
// (e.g. "1.2.3-beta1").
func ParseSemver(version string) (major, minor, patch int) {
	versionStr := NiceTag(version)

	// Split on pre-release separators to get the base version
	baseParts := strings.FieldsFunc(versionStr, func(r rune) bool {
		return r == '-' || r == '_' || r == '+'
	})

	if len(baseParts) == 0 {
		return 0, 0, 0
	}

	parts := strings.Split(baseParts[0], ".")

	if len(parts) >= 1 {
		major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) >= 2 {
		minor, _ = strconv.Atoi(parts[1])
	}
	if len(parts) >= 3 {
		patch, _ = strconv.Atoi(parts[2])
	}

	return major, minor, patch
}

// classifyUpdate determines the type of update between the pinned and the
// selected tag. The classification is display metadata; the Changed flag
// alone drives the update decision.
func classifyUpdate(current, latest string) UpdateType {
	if NiceTag(current) == NiceTag(latest) {
		return UpdateTypeNone
	}

	curMajor, curMinor, curPatch := ParseSemver(current)
	latMajor, latMinor, latPatch := ParseSemver(latest)

	// Non-semver tags that differ are treated as patch updates so they
	// still show up in filtered views
	if curMajor == 0 && curMinor == 0 && curPatch == 0 &&
		latMajor == 0 && latMinor == 0 && latPatch == 0 {
		return UpdateTypePatch
	}

	if latMajor > curMajor {
		return UpdateTypeMajor
	}
	if latMajor < curMajor {
		return UpdateTypeNone // Downgrade
	}

	if latMinor > curMinor {
		return UpdateTypeMinor
	}
	if latMinor < curMinor {
		return UpdateTypeNone // Downgrade
	}

	if latPatch > curPatch {
		return UpdateTypePatch
	}
	return UpdateTypeNone
}
