package scraper

import (
	"github.com/mxcd/bumper/internal/configuration"
	"github.com/mxcd/bumper/internal/scraper/github"
)

type GitHubProviderClientAdapter struct {
	client *github.GitHubProviderClient
}

func NewGitHubProviderClient(provider *configuration.Provider) ProviderClient {
	return &GitHubProviderClientAdapter{
		client: &github.GitHubProviderClient{
			Options: provider,
		},
	}
}

func (a *GitHubProviderClientAdapter) ScrapeDependency(dependency *configuration.Dependency, opts *ScrapeOptions) ([]*configuration.Candidate, error) {
	githubOpts := &github.ScrapeOptions{
		TagLimit: opts.TagLimit,
	}
	return a.client.ScrapeDependency(dependency, githubOpts)
}
