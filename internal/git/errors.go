package git

import "fmt"

// AmbiguousPullRequestError is returned when more than one open pull
// request exists for the same head branch. This should not happen and
// needs manual cleanup, so the run fails loudly instead of guessing.
type AmbiguousPullRequestError struct {
	Branch string
	Count  int
}

func (e *AmbiguousPullRequestError) Error() string {
	return fmt.Sprintf("found %d open pull requests for branch '%s', expected at most one", e.Count, e.Branch)
}
