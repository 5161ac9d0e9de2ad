package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// scrapeTags fetches the raw tag list of a repository. Filtering and
// ordering happen later in the resolver; the scraper only collects
// candidates.
func scrapeTags(provider *configuration.Provider, dependency *configuration.Dependency, opts *ScrapeOptions) ([]*configuration.Candidate, error) {
	log.Debug().Str("uri", dependency.URI).Msg("scraping GitHub tags")

	repoInfo, err := ParseRepositoryURL(dependency.URI)
	if err != nil {
		return nil, err
	}

	apiBaseURL := BuildAPIURL(provider.BaseUrl)

	tags, err := fetchAllTags(apiBaseURL, repoInfo, provider, effectiveTagLimit(dependency, opts))
	if err != nil {
		return nil, err
	}

	candidates := make([]*configuration.Candidate, 0, len(tags))
	for _, tag := range tags {
		candidate := &configuration.Candidate{Tag: tag.Name}
		if tag.Commit.SHA != "" {
			candidate.Info = fmt.Sprintf("commit: %.7s", tag.Commit.SHA)
		}
		candidates = append(candidates, candidate)
	}

	log.Info().
		Int("count", len(candidates)).
		Str("repo", fmt.Sprintf("%s/%s", repoInfo.Owner, repoInfo.Repo)).
		Msg("scraped GitHub tags")

	return candidates, nil
}

type gitHubTag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
		URL string `json:"url"`
	} `json:"commit"`
}

func fetchAllTags(apiBaseURL string, repoInfo *RepositoryInfo, provider *configuration.Provider, tagLimit int) ([]gitHubTag, error) {
	allTags := make([]gitHubTag, 0)
	perPage := 100
	page := 1

	client := &http.Client{}

	for {
		if tagLimit > 0 && len(allTags) >= tagLimit {
			log.Debug().
				Int("tags_fetched", len(allTags)).
				Int("tag_limit", tagLimit).
				Msg("reached tag limit, stopping pagination")
			break
		}

		apiURL := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=%d&page=%d", apiBaseURL, repoInfo.Owner, repoInfo.Repo, perPage, page)

		log.Trace().
			Str("url", apiURL).
			Int("page", page).
			Msg("fetching GitHub tags page")

		request, err := http.NewRequest("GET", apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		addAuthHeaders(request, provider)

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

		var pageTags []gitHubTag
		if err := json.Unmarshal(body, &pageTags); err != nil {
			return nil, fmt.Errorf("failed to parse tags response: %w", err)
		}

		// If no tags returned, we've reached the end
		if len(pageTags) == 0 {
			break
		}

		for _, tag := range pageTags {
			if tagLimit > 0 && len(allTags) >= tagLimit {
				break
			}
			allTags = append(allTags, tag)
		}

		log.Trace().
			Int("page", page).
			Int("page_tags", len(pageTags)).
			Int("total_tags", len(allTags)).
			Msg("fetched GitHub tags page")

		// If we got fewer tags than requested, we're done
		if len(pageTags) < perPage {
			break
		}

		page++
	}

	log.Debug().
		Int("total_tags", len(allTags)).
		Int("pages", page).
		Int("tag_limit", tagLimit).
		Msg("finished fetching GitHub tags")

	return allTags, nil
}

// addAuthHeaders sets authentication and API version headers on a GitHub
// API request based on the provider configuration
func addAuthHeaders(request *http.Request, provider *configuration.Provider) {
	if provider.AuthType == configuration.ProviderAuthTypeToken && provider.Token != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", provider.Token))
	} else if provider.AuthType == configuration.ProviderAuthTypeBasic && provider.Username != "" {
		request.SetBasicAuth(provider.Username, provider.Password)
	}

	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
