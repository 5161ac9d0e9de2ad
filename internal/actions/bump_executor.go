package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mxcd/bumper/internal/changelog"
	"github.com/mxcd/bumper/internal/configuration"
	"github.com/mxcd/bumper/internal/gate"
	"github.com/mxcd/bumper/internal/git"
	"github.com/mxcd/bumper/internal/resolver"
	"github.com/rs/zerolog/log"
)

// executeBump applies a planned bump: write the new version on the update
// branch, record it in the changelog, commit, push, and create or refresh
// the pull request.
func executeBump(config *configuration.Config, repo *git.Repository, githubClient *git.GitHubClient, item *BumpItem) (err error) {
	dependency := item.Resolution.Dependency
	outcome := item.Resolution.Outcome

	fmt.Printf("\n📦 %s: %s → %s\n", dependency.Display(), outcome.Original, outcome.Latest)

	if _, err = repo.CheckoutOrCreateBranch(item.BranchName); err != nil {
		return fmt.Errorf("failed to checkout or create branch %s: %w", item.BranchName, err)
	}

	// Always return to the base branch, also on error
	defer func() {
		if checkoutErr := repo.CheckoutBranch(repo.BaseBranch); checkoutErr != nil {
			log.Warn().Err(checkoutErr).Str("branch", repo.BaseBranch).Msg("Failed to checkout base branch")
			if err == nil {
				err = checkoutErr
			}
		}
	}()

	if err = item.Resolution.Target.WriteVersion(outcome.Latest); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	fmt.Printf("  ✓ Updated %s: %s → %s\n", dependency.File, outcome.Original, outcome.Latest)

	commitFiles := []string{relativePath(repo.WorkingDirectory, dependency.File)}

	summary := bumpSummary(item)

	if config.Changelog != nil {
		changelogWriter := changelog.New(config.Changelog)
		if err = changelogWriter.Append(changelogSection(dependency), summary); err != nil {
			return fmt.Errorf("failed to update changelog: %w", err)
		}
		commitFiles = append(commitFiles, relativePath(repo.WorkingDirectory, config.Changelog.File))
		fmt.Printf("  📝 Recorded changelog entry\n")
	}

	hasChanges, err := repo.HasUncommittedChanges()
	if err != nil {
		return fmt.Errorf("failed to check for changes: %w", err)
	}

	if hasChanges {
		commitOptions := &git.CommitOptions{
			Message: summary,
			Files:   commitFiles,
		}
		if err = repo.Commit(commitOptions); err != nil {
			return fmt.Errorf("failed to commit changes: %w", err)
		}
		fmt.Printf("  📝 Created commit: %s\n", summary)
	} else {
		log.Debug().Str("branch", item.BranchName).Msg("Branch already carries the update, nothing to commit")
	}

	if err = repo.Push(); err != nil {
		return fmt.Errorf("failed to push branch: %w", err)
	}
	fmt.Printf("  📤 Pushed branch %s\n", item.BranchName)

	prOptions := &git.PullRequestOptions{
		Title:      summary,
		Body:       buildPullRequestBody(item),
		BaseBranch: repo.BaseBranch,
		HeadBranch: item.BranchName,
		Labels:     dependency.Labels,
	}

	switch item.Plan {
	case gate.UpdateExistingPR:
		if item.ExistingPR == nil {
			return fmt.Errorf("planned to update a pull request but none was found for branch %s", item.BranchName)
		}
		if err = githubClient.UpdatePullRequest(item.ExistingPR.Number, prOptions); err != nil {
			return fmt.Errorf("failed to update pull request: %w", err)
		}
		item.PRURL = item.ExistingPR.HTMLURL
		fmt.Printf("  🔄 Updated pull request: %s\n", item.PRURL)

	case gate.CreateNewPR:
		prURL, err := githubClient.CreatePullRequest(prOptions)
		if err != nil {
			return fmt.Errorf("failed to create pull request: %w", err)
		}
		item.PRURL = prURL
		fmt.Printf("  🔀 Created pull request: %s\n", prURL)
	}

	return nil
}

// buildPullRequestBody renders the PR description for a bump
func buildPullRequestBody(item *BumpItem) string {
	dependency := item.Resolution.Dependency
	outcome := item.Resolution.Outcome

	var body strings.Builder
	body.WriteString(fmt.Sprintf("Bumps **%s** from `%s` to `%s`.\n\n", dependency.Display(), outcome.Original, outcome.Latest))

	body.WriteString("| | |\n|---|---|\n")
	body.WriteString(fmt.Sprintf("| Dependency | %s |\n", dependency.Display()))
	body.WriteString(fmt.Sprintf("| Source | %s |\n", dependency.URI))
	body.WriteString(fmt.Sprintf("| Target | `%s` |\n", dependency.File))
	body.WriteString(fmt.Sprintf("| Update type | %s |\n", formatUpdateType(outcome.UpdateType)))

	body.WriteString("\n---\n*This pull request was generated automatically. Any manual commits on the update branch stop future automatic updates of this branch.*\n")

	return body.String()
}

// formatUpdateType adds an emoji indicator to the update type for PR bodies
func formatUpdateType(ut resolver.UpdateType) string {
	s := string(ut)
	switch ut {
	case resolver.UpdateTypeMajor:
		return "🔴 " + s
	case resolver.UpdateTypeMinor:
		return "🟡 " + s
	case resolver.UpdateTypePatch:
		return "🟢 " + s
	default:
		return s
	}
}

// relativePath makes a path relative to the repository root for git
func relativePath(workingDirectory string, path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	relPath, err := filepath.Rel(workingDirectory, path)
	if err != nil {
		return path
	}
	return relPath
}
