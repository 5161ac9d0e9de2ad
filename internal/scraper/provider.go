package scraper

import "github.com/mxcd/bumper/internal/configuration"

type ScrapeOptions struct {
	TagLimit int // Overrides the per-dependency tag limit when > 0
}

type ProviderClient interface {
	ScrapeDependency(*configuration.Dependency, *ScrapeOptions) ([]*configuration.Candidate, error)
}
