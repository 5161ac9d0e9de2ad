package docker

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// scrapeImageTags fetches the raw tag list of a container image from its
// registry. Filtering and ordering happen later in the resolver.
// Supports Docker Hub and V2 registries (ghcr.io, gcr.io, custom).
func scrapeImageTags(provider *configuration.Provider, dependency *configuration.Dependency, opts *ScrapeOptions) ([]*configuration.Candidate, error) {
	log.Debug().Str("uri", dependency.URI).Msg("scraping Docker image tags")

	imageInfo, err := ParseImageURL(dependency.URI)
	if err != nil {
		return nil, err
	}

	registryURL := BuildRegistryURL(provider.BaseUrl, imageInfo.Registry)
	tagLimit := effectiveTagLimit(dependency, opts)

	var tags []string
	isDockerHub := imageInfo.Registry == "" || imageInfo.Registry == "docker.io"
	if isDockerHub {
		tags, err = fetchDockerHubTagsPaginated(imageInfo, provider, tagLimit)
	} else {
		// Docker Registry API v2 for custom registries (ghcr.io, gcr.io, etc.)
		// Uses token exchange auth flow and pagination
		tags, err = fetchV2TagsPaginated(registryURL, imageInfo, provider, tagLimit)
	}
	if err != nil {
		return nil, err
	}

	candidates := make([]*configuration.Candidate, 0, len(tags))
	for _, tag := range tags {
		candidates = append(candidates, &configuration.Candidate{Tag: tag})
	}

	log.Info().
		Int("count", len(candidates)).
		Str("image", imageInfo.Repository).
		Msg("scraped Docker image tags")

	return candidates, nil
}

func fetchDockerHubTagsPaginated(imageInfo *ImageInfo, provider *configuration.Provider, tagLimit int) ([]string, error) {
	allTags := make([]string, 0)
	pageSize := 100
	nextURL := fmt.Sprintf("https://registry.hub.docker.com/v2/repositories/%s/tags?page_size=%d", imageInfo.Repository, pageSize)

	client := &http.Client{Timeout: 30 * time.Second}

	pageCount := 0

	for nextURL != "" {
		if tagLimit > 0 && len(allTags) >= tagLimit {
			log.Debug().
				Int("tags_fetched", len(allTags)).
				Int("tag_limit", tagLimit).
				Msg("reached tag limit, stopping pagination")
			break
		}

		pageCount++
		log.Trace().
			Str("url", nextURL).
			Int("page", pageCount).
			Msg("fetching Docker Hub tags page")

		request, err := http.NewRequest("GET", nextURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		applyStaticAuth(request, provider)

		response, err := client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tags: %w", err)
		}

		if response.StatusCode != http.StatusOK {
			response.Body.Close()
			return nil, fmt.Errorf("failed to fetch tags: HTTP %d", response.StatusCode)
		}

		body, err := io.ReadAll(response.Body)
		response.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("failed to read tags response: %w", err)
		}

		var pageResponse struct {
			Count   int    `json:"count"`
			Next    string `json:"next"`
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		}

		if err := json.Unmarshal(body, &pageResponse); err != nil {
			return nil, fmt.Errorf("failed to parse Docker Hub response: %w", err)
		}

		for _, result := range pageResponse.Results {
			if tagLimit > 0 && len(allTags) >= tagLimit {
				break
			}
			allTags = append(allTags, result.Name)
		}

		// Use the Next URL from the response, or stop if there isn't one
		nextURL = pageResponse.Next

		log.Trace().
			Int("page", pageCount).
			Int("page_tags", len(pageResponse.Results)).
			Int("total_tags", len(allTags)).
			Bool("has_next", nextURL != "").
			Msg("fetched Docker Hub tags page")
	}

	log.Debug().
		Int("total_tags", len(allTags)).
		Int("pages", pageCount).
		Int("tag_limit", tagLimit).
		Msg("finished fetching Docker Hub tags")

	return allTags, nil
}

// fetchV2TagsPaginated fetches tags from a V2 registry with pagination and auth challenge support
func fetchV2TagsPaginated(registryURL string, imageInfo *ImageInfo, provider *configuration.Provider, tagLimit int) ([]string, error) {
	allTags := make([]string, 0)
	client := &http.Client{Timeout: 30 * time.Second}

	pageSize := 100
	nextURL := fmt.Sprintf("%s/v2/%s/tags/list?n=%d", registryURL, imageInfo.Repository, pageSize)
	pageCount := 0

	for nextURL != "" {
		if tagLimit > 0 && len(allTags) >= tagLimit {
			log.Debug().
				Int("tags_fetched", len(allTags)).
				Int("tag_limit", tagLimit).
				Msg("reached tag limit, stopping pagination")
			break
		}

		pageCount++
		log.Trace().
			Str("url", nextURL).
			Int("page", pageCount).
			Msg("fetching V2 registry tags page")

		resp, err := doAuthenticatedRequest(client, nextURL, provider, imageInfo.Repository)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tags: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch tags: HTTP %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		linkHeader := resp.Header.Get("Link")
		resp.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("failed to read tags response: %w", err)
		}

		var tagsResp struct {
			Name string   `json:"name"`
			Tags []string `json:"tags"`
		}
		if err := json.Unmarshal(body, &tagsResp); err != nil {
			return nil, fmt.Errorf("failed to parse registry response: %w", err)
		}

		for _, tag := range tagsResp.Tags {
			if tagLimit > 0 && len(allTags) >= tagLimit {
				break
			}
			allTags = append(allTags, tag)
		}

		nextURL = getNextPageURL(linkHeader, registryURL)

		log.Trace().
			Int("page", pageCount).
			Int("page_tags", len(tagsResp.Tags)).
			Int("total_tags", len(allTags)).
			Bool("has_next", nextURL != "").
			Msg("fetched V2 registry tags page")
	}

	log.Debug().
		Int("total_tags", len(allTags)).
		Int("pages", pageCount).
		Int("tag_limit", tagLimit).
		Msg("finished fetching V2 registry tags")

	return allTags, nil
}
