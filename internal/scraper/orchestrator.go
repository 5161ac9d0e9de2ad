package scraper

import (
	"fmt"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"

	"github.com/schollz/progressbar/v3"
)

// ScrapeError records a scraping failure for a single dependency
type ScrapeError struct {
	DependencyName string
	Provider       string
	Err            error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("dependency %s (provider %s): %v", e.DependencyName, e.Provider, e.Err)
}

// ScrapeResult holds the outcome of a ScrapeAllDependencies call
type ScrapeResult struct {
	Succeeded int
	Failed    int
	Errors    []*ScrapeError
}

// HasErrors returns true if any dependencies failed to scrape
func (r *ScrapeResult) HasErrors() bool {
	return len(r.Errors) > 0
}

type Orchestrator struct {
	config          *configuration.Config
	providerClients map[string]ProviderClient
}

func NewOrchestrator(config *configuration.Config) (*Orchestrator, error) {
	o := &Orchestrator{
		config:          config,
		providerClients: make(map[string]ProviderClient),
	}

	for _, provider := range config.Providers {
		client, err := o.createProviderClient(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider client for %s: %w", provider.Name, err)
		}
		o.providerClients[provider.Name] = client
	}

	return o, nil
}

func (o *Orchestrator) createProviderClient(provider *configuration.Provider) (ProviderClient, error) {
	switch provider.Type {
	case configuration.ProviderTypeGitHub:
		return NewGitHubProviderClient(provider), nil
	case configuration.ProviderTypeDocker:
		return NewDockerProviderClient(provider), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", provider.Type)
	}
}

// ScrapeAllDependencies fetches the candidate tags for every configured
// dependency and stores them on the dependency. Failures are collected per
// dependency instead of aborting the whole run.
func (o *Orchestrator) ScrapeAllDependencies(options *ScrapeOptions) *ScrapeResult {
	log.Debug().Int("count", len(o.config.Dependencies)).Msg("Starting to scrape all dependencies")

	bar := progressbar.NewOptions(len(o.config.Dependencies),
		progressbar.OptionSetDescription("Fetching candidate tags:"),
		progressbar.OptionSetItsString("dep"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	result := &ScrapeResult{}

	for _, dependency := range o.config.Dependencies {
		bar.Add(1)
		if err := o.scrapeDependency(dependency, options); err != nil {
			log.Error().
				Err(err).
				Str("dependency", dependency.Name).
				Str("provider", dependency.Provider).
				Msg("Failed to scrape dependency")
			result.Failed++
			result.Errors = append(result.Errors, &ScrapeError{
				DependencyName: dependency.Name,
				Provider:       dependency.Provider,
				Err:            err,
			})
		} else {
			result.Succeeded++
		}
	}

	bar.Finish()
	fmt.Printf("\n")

	if result.HasErrors() {
		log.Warn().
			Int("succeeded", result.Succeeded).
			Int("failed", result.Failed).
			Msg("Scraped dependencies with errors")
	} else {
		log.Debug().Msg("Successfully scraped all dependencies")
	}
	return result
}

func (o *Orchestrator) scrapeDependency(dependency *configuration.Dependency, options *ScrapeOptions) error {
	log.Debug().
		Str("dependency", dependency.Name).
		Str("provider", dependency.Provider).
		Str("source", string(dependency.Source)).
		Str("uri", dependency.URI).
		Msg("Scraping dependency")

	client, exists := o.providerClients[dependency.Provider]
	if !exists {
		return fmt.Errorf("provider %s not found", dependency.Provider)
	}

	candidates, err := client.ScrapeDependency(dependency, options)
	if err != nil {
		return fmt.Errorf("failed to scrape dependency: %w", err)
	}

	dependency.Candidates = candidates

	log.Debug().
		Str("dependency", dependency.Name).
		Int("candidates", len(candidates)).
		Msg("Successfully scraped dependency")

	return nil
}

func (o *Orchestrator) GetConfig() *configuration.Config {
	return o.config
}
