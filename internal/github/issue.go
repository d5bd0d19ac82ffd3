// Package github is a small GitHub REST client covering the issue endpoints
// the race needs, plus the credential sources used to authenticate it.
package github

// Issue is the subset of a GitHub issue the race cares about. Pull requests
// are returned by the same listing and share the number sequence.
type Issue struct {
	Number  uint64 `json:"number"`
	Title   string `json:"title,omitempty"`
	State   string `json:"state,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
}

// IssueRequest is the body of a create-issue call.
type IssueRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListOptions controls the issue listing query.
type ListOptions struct {
	PerPage int
	State   string
}

// LatestIssueOptions asks for the single most recently created issue in any state.
var LatestIssueOptions = ListOptions{PerPage: 1, State: "all"}
