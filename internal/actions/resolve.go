package actions

import (
	"fmt"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/mxcd/bumper/internal/resolver"
	"github.com/mxcd/bumper/internal/scraper"
	"github.com/mxcd/bumper/internal/target"
	"github.com/rs/zerolog/log"
)

// Resolution is the per-dependency result of scraping, reading the pinned
// version and resolving the latest matching tag
type Resolution struct {
	Dependency *configuration.Dependency
	Target     target.TargetClient
	Outcome    *resolver.Outcome
	Err        error
}

// NeedsUpdate reports whether the resolution succeeded and found a newer tag
func (r *Resolution) NeedsUpdate() bool {
	return r.Err == nil && r.Outcome != nil && r.Outcome.Changed
}

// resolveAll scrapes every configured dependency and resolves it against
// the version currently pinned in its target. Failures are collected per
// dependency so one broken provider does not abort the whole run.
func resolveAll(config *configuration.Config, repoDir string, limit int) []*Resolution {
	orchestrator, err := scraper.NewOrchestrator(config)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create scraper orchestrator")
		resolutions := make([]*Resolution, 0, len(config.Dependencies))
		for _, dependency := range config.Dependencies {
			resolutions = append(resolutions, &Resolution{
				Dependency: dependency,
				Err:        fmt.Errorf("orchestrator creation error: %w", err),
			})
		}
		return resolutions
	}

	scrapeResult := orchestrator.ScrapeAllDependencies(&scraper.ScrapeOptions{
		TagLimit: limit,
	})

	log.Debug().
		Int("succeeded", scrapeResult.Succeeded).
		Int("failed", scrapeResult.Failed).
		Msg("Scraping complete")

	scrapeErrors := make(map[string]error)
	for _, scrapeErr := range scrapeResult.Errors {
		scrapeErrors[scrapeErr.DependencyName] = scrapeErr
	}

	targetFactory := target.NewTargetFactory(repoDir)

	resolutions := make([]*Resolution, 0, len(config.Dependencies))
	for _, dependency := range config.Dependencies {
		resolution := &Resolution{Dependency: dependency}
		resolutions = append(resolutions, resolution)

		if scrapeErr, failed := scrapeErrors[dependency.Name]; failed {
			resolution.Err = scrapeErr
			continue
		}

		targetClient, err := targetFactory.CreateTarget(dependency)
		if err != nil {
			resolution.Err = fmt.Errorf("failed to create target client: %w", err)
			continue
		}
		resolution.Target = targetClient

		current, err := targetClient.ReadCurrentVersion()
		if err != nil {
			resolution.Err = fmt.Errorf("failed to read current version: %w", err)
			continue
		}

		outcome, err := resolver.Resolve(dependency, current)
		if err != nil {
			resolution.Err = err
			continue
		}
		resolution.Outcome = outcome
	}

	return resolutions
}

// filterResolutions keeps only resolutions matching the 'only' flag
func filterResolutions(resolutions []*Resolution, only string) []*Resolution {
	if only == "" || only == "all" {
		return resolutions
	}

	filtered := make([]*Resolution, 0)
	for _, resolution := range resolutions {
		if resolution.Err != nil {
			filtered = append(filtered, resolution)
			continue
		}
		if string(resolution.Outcome.UpdateType) == only {
			filtered = append(filtered, resolution)
		}
	}
	return filtered
}

// loadAndValidate loads a configuration and fails on validation errors
func loadAndValidate(configPath string) (*configuration.Config, error) {
	config, err := configuration.LoadConfiguration(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return nil, fmt.Errorf("configuration load error: %w", err)
	}

	log.Debug().Msg("Configuration loaded successfully")

	validationResult := configuration.ValidateConfiguration(config)
	if !validationResult.Valid {
		log.Error().Msg("Configuration validation failed")
		for _, validationErr := range validationResult.Errors {
			log.Error().Str("field", validationErr.Field).Msg(validationErr.Message)
		}
		return nil, fmt.Errorf("configuration validation failed")
	}

	log.Debug().Msg("Configuration is valid")
	return config, nil
}
