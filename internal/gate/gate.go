// Package gate decides what a bump run does with a resolved dependency:
// nothing, open a new pull request, or update the existing one.
package gate

import (
	"github.com/mxcd/bumper/internal/resolver"
	"github.com/rs/zerolog/log"
)

// ActionPlan is the terminal decision for a single dependency. Every run
// computes exactly one plan per dependency and exits; there are no retries.
type ActionPlan int

const (
	NoOp ActionPlan = iota
	CreateNewPR
	UpdateExistingPR
)

func (p ActionPlan) String() string {
	switch p {
	case CreateNewPR:
		return "create-pr"
	case UpdateExistingPR:
		return "update-pr"
	default:
		return "no-op"
	}
}

// BranchState describes the pre-existing update branch for a dependency.
// HasManualCommits is true when the branch carries commits since the base
// branch that were not authored by the configured actor.
type BranchState struct {
	HasManualCommits bool
}

// Decide maps a resolver outcome plus the branch and PR state to an action
// plan. Manual commits on the update branch always win over a pending
// update: a human edited the branch and the automation must not overwrite
// their work.
func Decide(outcome *resolver.Outcome, branch BranchState, existingPR bool) ActionPlan {
	if !outcome.Changed {
		return NoOp
	}

	if branch.HasManualCommits {
		log.Warn().
			Str("dependency", outcome.Dependency).
			Str("latest", outcome.Latest).
			Msg("Update branch has manual commits, leaving it untouched")
		return NoOp
	}

	if existingPR {
		return UpdateExistingPR
	}

	return CreateNewPR
}
