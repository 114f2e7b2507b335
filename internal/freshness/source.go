package freshness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNoRuns means the workflow has never run.
	ErrNoRuns = errors.New("no workflow runs found")
	// ErrMissingTimestamp means the latest run carries no run_started_at.
	ErrMissingTimestamp = errors.New("run_started_at missing in API response")
)

// RunSource reports when the data-refresh workflow last started.
type RunSource interface {
	LatestRunStart(ctx context.Context) (time.Time, error)
	Name() string
}

// GitHubSource queries the GitHub Actions runs endpoint for one workflow file.
type GitHubSource struct {
	APIBase      string
	Owner        string
	Repo         string
	WorkflowFile string
	Token        string
	client       *resty.Client
}

// NewGitHubSource creates a source with a 30s timeout and optional proxy.
func NewGitHubSource(apiBase, owner, repo, workflowFile, token, proxyURL string) *GitHubSource {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	return &GitHubSource{
		APIBase:      strings.TrimRight(apiBase, "/"),
		Owner:        owner,
		Repo:         repo,
		WorkflowFile: workflowFile,
		Token:        token,
		client:       client,
	}
}

func (g *GitHubSource) Name() string { return "github" }

// workflowRuns is the subset of the runs listing we read.
type workflowRuns struct {
	TotalCount   int `json:"total_count"`
	WorkflowRuns []struct {
		ID           int64  `json:"id"`
		Status       string `json:"status"`
		RunStartedAt string `json:"run_started_at"`
	} `json:"workflow_runs"`
}

// URL returns the runs endpoint for the configured workflow.
func (g *GitHubSource) URL() string {
	return fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/runs", g.APIBase, g.Owner, g.Repo, g.WorkflowFile)
}

func (g *GitHubSource) LatestRunStart(ctx context.Context) (time.Time, error) {
	req := g.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.github+json").
		SetQueryParam("per_page", "1")
	if g.Token != "" {
		req.SetAuthToken(g.Token)
	}

	resp, err := req.Get(g.URL())
	if err != nil {
		return time.Time{}, fmt.Errorf("github request: %w", err)
	}
	if !resp.IsSuccess() {
		return time.Time{}, fmt.Errorf("github API failed: status %d", resp.StatusCode())
	}

	var runs workflowRuns
	if err := json.Unmarshal(resp.Body(), &runs); err != nil {
		return time.Time{}, fmt.Errorf("decode workflow runs: %w", err)
	}
	if len(runs.WorkflowRuns) == 0 {
		return time.Time{}, ErrNoRuns
	}
	startedAt := runs.WorkflowRuns[0].RunStartedAt
	if startedAt == "" {
		return time.Time{}, ErrMissingTimestamp
	}
	ts, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid run_started_at %q: %w", startedAt, err)
	}
	return ts, nil
}
