package github

import (
	"fmt"

	"github.com/mxcd/bumper/internal/configuration"
)

type ScrapeOptions struct {
	TagLimit int
}

type GitHubProviderClient struct {
	Options *configuration.Provider
}

func (c *GitHubProviderClient) ScrapeDependency(dependency *configuration.Dependency, opts *ScrapeOptions) ([]*configuration.Candidate, error) {
	switch dependency.Source {
	case configuration.SourceTypeGitTag:
		return scrapeTags(c.Options, dependency, opts)
	case configuration.SourceTypeGitRelease:
		return scrapeReleases(c.Options, dependency, opts)
	default:
		return nil, fmt.Errorf("unsupported source type for GitHub provider: %s", dependency.Source)
	}
}

// effectiveTagLimit resolves the fetch cap: the option overrides the
// per-dependency limit, negative values mean unlimited
func effectiveTagLimit(dependency *configuration.Dependency, opts *ScrapeOptions) int {
	limit := dependency.TagLimit
	if opts != nil && opts.TagLimit > 0 {
		limit = opts.TagLimit
	}
	if limit < 0 {
		limit = 0
	}
	return limit
}
