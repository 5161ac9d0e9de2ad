package actions

import (
	"fmt"

	"github.com/mxcd/bumper/internal/configuration"
	"github.com/mxcd/bumper/internal/gate"
	"github.com/mxcd/bumper/internal/git"
	"github.com/mxcd/bumper/internal/resolver"
)

// BumpOptions represents options for the bump command
type BumpOptions struct {
	ConfigPath string
	RepoPath   string
	DryRun     bool
	Limit      int
	Only       string
}

// BumpItem tracks a single dependency through the bump run
type BumpItem struct {
	Resolution *Resolution
	BranchName string
	Plan       gate.ActionPlan
	ExistingPR *git.PullRequest
	PRURL      string
	Err        error
}

// branchName derives the update branch for a dependency. The "update"
// strategy reuses one stable branch per dependency so consecutive bumps
// land on the same pull request; the "create" strategy opens a fresh
// branch per version.
func branchName(dependency *configuration.Dependency, outcome *resolver.Outcome) string {
	switch dependency.Strategy() {
	case configuration.PRStrategyCreate:
		return fmt.Sprintf("bump/%s-%s", dependency.Name, outcome.Nice())
	default:
		return fmt.Sprintf("bump/%s", dependency.Name)
	}
}

// bumpSummary is the one-line description used for the commit message,
// the PR title and the changelog entry
func bumpSummary(item *BumpItem) string {
	outcome := item.Resolution.Outcome
	return fmt.Sprintf("Bump %s from %s to %s",
		item.Resolution.Dependency.Display(),
		resolver.NiceTag(outcome.Original),
		outcome.Nice())
}

// changelogSection returns the configured changelog section with a default
func changelogSection(dependency *configuration.Dependency) string {
	if dependency.ChangelogSection != "" {
		return dependency.ChangelogSection
	}
	return "Dependencies"
}
