package actions

import (
	"fmt"

	"github.com/mxcd/bumper/internal/gate"
	"github.com/mxcd/bumper/internal/git"
	"github.com/rs/zerolog/log"
)

// Bump is the full update run: resolve every dependency, decide what to
// do per dependency, then apply the version bumps and open or refresh the
// corresponding pull requests.
func Bump(options *BumpOptions) error {
	config, err := loadAndValidate(options.ConfigPath)
	if err != nil {
		return err
	}

	if config.Actor == nil {
		return fmt.Errorf("actor configuration is required for bump")
	}

	// Detect the repository the targets live in
	repo := git.NewRepository(options.RepoPath, config.Actor)
	if err := repo.DetectRepository(options.RepoPath); err != nil {
		return fmt.Errorf("failed to detect git repository: %w", err)
	}

	githubClient, err := git.NewGitHubClient(repo.RepoURL, config.Actor)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	resolutions := resolveAll(config, repo.WorkingDirectory, options.Limit)
	resolutions = filterResolutions(resolutions, options.Only)

	// Plan every dependency before touching anything
	items := make([]*BumpItem, 0, len(resolutions))
	for _, resolution := range resolutions {
		items = append(items, planBump(repo, githubClient, resolution))
	}

	if options.DryRun {
		outputBumpPlan(items)
		return nil
	}

	executed := 0
	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			continue
		}
		if item.Plan == gate.NoOp {
			continue
		}

		if err := executeBump(config, repo, githubClient, item); err != nil {
			log.Error().
				Err(err).
				Str("dependency", item.Resolution.Dependency.Name).
				Msg("Failed to execute bump")
			item.Err = err
			failed++
			continue
		}
		executed++
	}

	outputBumpResults(items)

	if failed > 0 {
		return fmt.Errorf("%d of %d bump(s) failed", failed, len(items))
	}

	log.Info().Int("executed", executed).Msg("Bump run complete")
	return nil
}

// planBump computes the action plan for a single resolved dependency
// without modifying anything
func planBump(repo *git.Repository, githubClient *git.GitHubClient, resolution *Resolution) *BumpItem {
	item := &BumpItem{Resolution: resolution}

	if resolution.Err != nil {
		item.Err = resolution.Err
		return item
	}

	item.BranchName = branchName(resolution.Dependency, resolution.Outcome)

	// An ambiguous PR state fails the dependency instead of guessing
	pr, err := githubClient.FindOpenPullRequest(item.BranchName)
	if err != nil {
		item.Err = err
		return item
	}
	item.ExistingPR = pr

	branchState, err := repo.BranchState(item.BranchName)
	if err != nil {
		item.Err = err
		return item
	}

	item.Plan = gate.Decide(resolution.Outcome, gate.BranchState{
		HasManualCommits: branchState.HasManualCommits,
	}, pr != nil)

	log.Debug().
		Str("dependency", resolution.Dependency.Name).
		Str("branch", item.BranchName).
		Str("plan", item.Plan.String()).
		Msg("Planned bump")

	return item
}
