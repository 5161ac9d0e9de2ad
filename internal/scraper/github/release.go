package github

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/rs/zerolog/log"
)

// scrapeReleases fetches the published releases of a repository and returns
// their tags as candidates. Drafts are skipped; prereleases are kept and
// left to the tag filter.
func scrapeReleases(provider *configuration.Provider, dependency *configuration.Dependency, opts *ScrapeOptions) ([]*configuration.Candidate, error) {
	log.Debug().Str("uri", dependency.URI).Msg("scraping GitHub releases")

	repoInfo, err := ParseRepositoryURL(dependency.URI)
	if err != nil {
		return nil, err
	}

	apiBaseURL := BuildAPIURL(provider.BaseUrl)
	tagLimit := effectiveTagLimit(dependency, opts)

	candidates := make([]*configuration.Candidate, 0)
	perPage := 100
	page := 1

	client := &http.Client{}

	for {
		if tagLimit > 0 && len(candidates) >= tagLimit {
			break
		}

		apiURL := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d", apiBaseURL, repoInfo.Owner, repoInfo.Repo, perPage, page)

		log.Trace().
			Str("url", apiURL).
			Int("page", page).
			Msg("fetching GitHub releases page")

		request, err := http.NewRequest("GET", apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		addAuthHeaders(request, provider)

		response, err := client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch releases: %w", err)
		}

		if response.StatusCode != http.StatusOK {
			response.Body.Close()
			return nil, fmt.Errorf("failed to fetch releases: HTTP %d", response.StatusCode)
		}

		body, err := io.ReadAll(response.Body)
		response.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("failed to read releases response: %w", err)
		}

		var pageReleases []struct {
			TagName     string `json:"tag_name"`
			Name        string `json:"name"`
			Draft       bool   `json:"draft"`
			PreRelease  bool   `json:"prerelease"`
			PublishedAt string `json:"published_at"`
		}

		if err := json.Unmarshal(body, &pageReleases); err != nil {
			return nil, fmt.Errorf("failed to parse releases response: %w", err)
		}

		if len(pageReleases) == 0 {
			break
		}

		for _, release := range pageReleases {
			if tagLimit > 0 && len(candidates) >= tagLimit {
				break
			}
			if release.Draft || release.TagName == "" {
				continue
			}

			var infoItems []string
			if release.Name != "" && release.Name != release.TagName {
				infoItems = append(infoItems, fmt.Sprintf("name: %s", release.Name))
			}
			if release.PreRelease {
				infoItems = append(infoItems, "prerelease: true")
			}
			if release.PublishedAt != "" {
				infoItems = append(infoItems, fmt.Sprintf("published: %s", release.PublishedAt))
			}

			candidates = append(candidates, &configuration.Candidate{
				Tag:  release.TagName,
				Info: strings.Join(infoItems, ", "),
			})
		}

		if len(pageReleases) < perPage {
			break
		}

		page++
	}

	log.Info().
		Int("count", len(candidates)).
		Str("repo", fmt.Sprintf("%s/%s", repoInfo.Owner, repoInfo.Repo)).
		Msg("scraped GitHub releases")

	return candidates, nil
}
