package scraper

import (
	"github.com/mxcd/bumper/internal/configuration"
	"github.com/mxcd/bumper/internal/scraper/docker"
)

type DockerProviderClientAdapter struct {
	client *docker.DockerProviderClient
}

func NewDockerProviderClient(provider *configuration.Provider) ProviderClient {
	return &DockerProviderClientAdapter{
		client: &docker.DockerProviderClient{
			Options: provider,
		},
	}
}

func (a *DockerProviderClientAdapter) ScrapeDependency(dependency *configuration.Dependency, opts *ScrapeOptions) ([]*configuration.Candidate, error) {
	dockerOpts := &docker.ScrapeOptions{
		TagLimit: opts.TagLimit,
	}
	return a.client.ScrapeDependency(dependency, dockerOpts)
}
