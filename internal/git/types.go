package git

import "github.com/mxcd/bumper/internal/configuration"

// Repository represents a git repository
type Repository struct {
	WorkingDirectory string
	Actor            *configuration.Actor
	RepoURL          string
	BaseBranch       string
	BranchName       string
}

// BranchState describes a remote update branch
type BranchState struct {
	Exists           bool
	HasManualCommits bool
}

// CommitOptions represents options for creating a commit
type CommitOptions struct {
	Message string
	Files   []string
}

// PullRequestOptions represents options for creating a pull request
type PullRequestOptions struct {
	Title      string
	Body       string
	BaseBranch string
	HeadBranch string
	Labels     []string
}
