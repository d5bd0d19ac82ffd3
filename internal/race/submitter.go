package race

import (
	"context"
	"fmt"

	"github.com/andywolf/issuerace/internal/content"
	"github.com/andywolf/issuerace/internal/github"
)

// IssueCreator sends a create-issue request.
type IssueCreator interface {
	CreateIssue(ctx context.Context, req github.IssueRequest) (*github.Issue, error)
}

// ContentSource supplies the title and body to post.
type ContentSource interface {
	Load() (content.Issue, error)
}

// Submitter posts the prepared issue exactly once per call. Retrying is the
// loop's decision, and after a write the loop never retries.
type Submitter struct {
	creator IssueCreator
	source  ContentSource
}

// NewSubmitter creates a Submitter.
func NewSubmitter(creator IssueCreator, source ContentSource) *Submitter {
	return &Submitter{creator: creator, source: source}
}

// Submit loads the content and creates the issue.
func (s *Submitter) Submit(ctx context.Context) (*github.Issue, error) {
	issue, err := s.source.Load()
	if err != nil {
		return nil, err
	}

	created, err := s.creator.CreateIssue(ctx, github.IssueRequest{
		Title: issue.Title,
		Body:  issue.Body,
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("create issue returned no issue")
	}
	return created, nil
}
